package solana

import (
	"bytes"
	"fmt"

	"github.com/mr-tron/base58"
)

// Wire format constants.
const (
	signatureLength = 64
	publicKeyLength = 32
	blockhashLength = 32

	// messageVersionPrefix marks a versioned message; the low bits carry
	// the version number. Legacy messages have no prefix byte.
	messageVersionPrefix = 0x80
)

// WireTransaction is a deserialized Solana transaction: one signature slot
// per required signer plus the message bytes those signatures cover. The
// message is kept opaque beyond the header fields needed to bind a recent
// blockhash and position signatures.
type WireTransaction struct {
	signatures [][]byte // signatureLength bytes each, zeroed until signed
	message    []byte

	signerKeys      [][]byte // publicKeyLength bytes, first numRequired account keys
	blockhashOffset int
}

// ParseTransaction deserializes wire-format transaction bytes.
// Supports legacy and v0 messages.
func ParseTransaction(raw []byte) (*WireTransaction, error) {
	numSigs, n, err := decodeCompactU16(raw)
	if err != nil {
		return nil, fmt.Errorf("signature count: %w", err)
	}
	off := n

	if len(raw) < off+numSigs*signatureLength {
		return nil, fmt.Errorf("truncated signatures: have %d bytes, need %d", len(raw)-off, numSigs*signatureLength)
	}
	provided := make([][]byte, numSigs)
	for i := 0; i < numSigs; i++ {
		sig := make([]byte, signatureLength)
		copy(sig, raw[off:off+signatureLength])
		provided[i] = sig
		off += signatureLength
	}

	msg := make([]byte, len(raw)-off)
	copy(msg, raw[off:])

	tx := &WireTransaction{message: msg}
	if err := tx.parseMessageHeader(); err != nil {
		return nil, err
	}

	// Signature slots follow the required-signer count from the header.
	// Builders typically emit zeroed placeholders; carry over any that
	// were already populated.
	tx.signatures = make([][]byte, len(tx.signerKeys))
	for i := range tx.signatures {
		tx.signatures[i] = make([]byte, signatureLength)
		if i < len(provided) {
			copy(tx.signatures[i], provided[i])
		}
	}

	return tx, nil
}

// parseMessageHeader walks the message far enough to record the required
// signer keys and the recent-blockhash offset.
func (t *WireTransaction) parseMessageHeader() error {
	msg := t.message
	off := 0

	if len(msg) == 0 {
		return fmt.Errorf("empty message")
	}

	if msg[0]&messageVersionPrefix != 0 {
		version := msg[0] & ^byte(messageVersionPrefix)
		if version != 0 {
			return fmt.Errorf("unsupported message version %d", version)
		}
		off = 1
	}

	if len(msg) < off+3 {
		return fmt.Errorf("truncated message header")
	}
	numRequired := int(msg[off])
	if numRequired == 0 {
		return fmt.Errorf("message requires no signatures")
	}
	off += 3 // skip readonly-signed and readonly-unsigned counts

	numAccounts, n, err := decodeCompactU16(msg[off:])
	if err != nil {
		return fmt.Errorf("account count: %w", err)
	}
	off += n

	if numAccounts < numRequired {
		return fmt.Errorf("%d accounts for %d required signers", numAccounts, numRequired)
	}
	if len(msg) < off+numAccounts*publicKeyLength {
		return fmt.Errorf("truncated account keys")
	}

	t.signerKeys = make([][]byte, numRequired)
	for i := 0; i < numRequired; i++ {
		t.signerKeys[i] = msg[off+i*publicKeyLength : off+(i+1)*publicKeyLength]
	}
	off += numAccounts * publicKeyLength

	if len(msg) < off+blockhashLength {
		return fmt.Errorf("truncated recent blockhash")
	}
	t.blockhashOffset = off

	return nil
}

// Message returns the bytes covered by the transaction's signatures.
func (t *WireTransaction) Message() []byte {
	return t.message
}

// RequiredSigners returns the base58 addresses that must sign, in
// signature-slot order.
func (t *WireTransaction) RequiredSigners() []string {
	signers := make([]string, len(t.signerKeys))
	for i, key := range t.signerKeys {
		signers[i] = base58.Encode(key)
	}
	return signers
}

// RecentBlockhash returns the blockhash currently bound into the message.
func (t *WireTransaction) RecentBlockhash() string {
	return base58.Encode(t.message[t.blockhashOffset : t.blockhashOffset+blockhashLength])
}

// SetRecentBlockhash binds a checkpoint blockhash into the message header.
// Any previously attached signatures are invalidated and cleared.
func (t *WireTransaction) SetRecentBlockhash(blockhash string) error {
	decoded, err := base58.Decode(blockhash)
	if err != nil {
		return fmt.Errorf("decode blockhash: %w", err)
	}
	if len(decoded) != blockhashLength {
		return fmt.Errorf("blockhash must be %d bytes, got %d", blockhashLength, len(decoded))
	}

	copy(t.message[t.blockhashOffset:], decoded)
	for i := range t.signatures {
		t.signatures[i] = make([]byte, signatureLength)
	}
	return nil
}

// AddSignature attaches a signature at the signer's slot. The signer must be
// one of the message's required signers.
func (t *WireTransaction) AddSignature(signer string, signature []byte) error {
	if len(signature) != signatureLength {
		return fmt.Errorf("signature must be %d bytes, got %d", signatureLength, len(signature))
	}

	key, err := base58.Decode(signer)
	if err != nil {
		return fmt.Errorf("decode signer key: %w", err)
	}

	for i, signerKey := range t.signerKeys {
		if bytes.Equal(signerKey, key) {
			copy(t.signatures[i], signature)
			return nil
		}
	}
	return fmt.Errorf("%s is not a required signer", signer)
}

// MissingSigners returns the addresses of required signers whose signature
// slots are still empty.
func (t *WireTransaction) MissingSigners() []string {
	var missing []string
	zero := make([]byte, signatureLength)
	for i, sig := range t.signatures {
		if bytes.Equal(sig, zero) {
			missing = append(missing, base58.Encode(t.signerKeys[i]))
		}
	}
	return missing
}

// Signatures returns the attached signatures in slot order.
func (t *WireTransaction) Signatures() [][]byte {
	sigs := make([][]byte, len(t.signatures))
	for i, sig := range t.signatures {
		out := make([]byte, signatureLength)
		copy(out, sig)
		sigs[i] = out
	}
	return sigs
}

// Signature returns the base58 transaction signature (the fee payer's, by
// ledger convention the first slot).
func (t *WireTransaction) Signature() string {
	if len(t.signatures) == 0 {
		return ""
	}
	return base58.Encode(t.signatures[0])
}

// Serialize re-encodes the transaction into wire format.
func (t *WireTransaction) Serialize() []byte {
	out := make([]byte, 0, 1+len(t.signatures)*signatureLength+len(t.message))
	out = append(out, encodeCompactU16(len(t.signatures))...)
	for _, sig := range t.signatures {
		out = append(out, sig...)
	}
	out = append(out, t.message...)
	return out
}

// decodeCompactU16 decodes the compact-u16 length prefix used throughout the
// Solana wire format. Returns the value and the number of bytes consumed.
func decodeCompactU16(data []byte) (int, int, error) {
	var value, shift uint
	for i := 0; i < 3; i++ {
		if i >= len(data) {
			return 0, 0, fmt.Errorf("truncated compact-u16")
		}
		b := uint(data[i])
		value |= (b & 0x7f) << shift
		if b&0x80 == 0 {
			if value > 0xffff {
				return 0, 0, fmt.Errorf("compact-u16 overflow")
			}
			return int(value), i + 1, nil
		}
		shift += 7
	}
	return 0, 0, fmt.Errorf("compact-u16 too long")
}

// encodeCompactU16 encodes a compact-u16 length prefix.
func encodeCompactU16(value int) []byte {
	var out []byte
	v := uint(value)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			out = append(out, b)
			return out
		}
		out = append(out, b|0x80)
	}
}
