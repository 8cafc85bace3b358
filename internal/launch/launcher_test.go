package launch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-launcher/internal/domain"
	"solana-token-launcher/internal/solana"
	"solana-token-launcher/internal/storage/memory"
	"solana-token-launcher/internal/wallet"
)

type fakePublisher struct {
	calls   int
	gotName string
	gotOpts domain.LaunchOptions
	record  *domain.MetadataRecord
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, name, ticker string, opts domain.LaunchOptions) (*domain.MetadataRecord, error) {
	f.calls++
	f.gotName = name
	f.gotOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

type fakeBuilder struct {
	calls     int
	gotWallet string
	gotMint   string
	unsigned  []byte
	err       error
}

func (f *fakeBuilder) Build(_ context.Context, walletAddress, mintAddress string, _ *domain.MetadataRecord, _ domain.LaunchOptions) ([]byte, error) {
	f.calls++
	f.gotWallet = walletAddress
	f.gotMint = mintAddress
	if f.err != nil {
		return nil, f.err
	}
	return f.unsigned, nil
}

type fakeSigner struct {
	calls   int
	gotMint *wallet.Keypair
	tx      *solana.WireTransaction
	cp      *domain.Checkpoint
	err     error
}

func (f *fakeSigner) Sign(_ context.Context, _ []byte, mint *wallet.Keypair, _ wallet.WalletContext) (*solana.WireTransaction, *domain.Checkpoint, error) {
	f.calls++
	f.gotMint = mint
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.tx, f.cp, nil
}

type fakeBroadcaster struct {
	calls     int
	signature string
	err       error
}

func (f *fakeBroadcaster) Submit(_ context.Context, _ *solana.WireTransaction, _ *domain.Checkpoint) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.signature, nil
}

type pipeline struct {
	publisher   *fakePublisher
	builder     *fakeBuilder
	signer      *fakeSigner
	broadcaster *fakeBroadcaster
	records     *memory.LaunchRecordStore
	events      *memory.LaunchEventStore
	launcher    *Launcher
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()

	walletKP, err := wallet.NewKeypair()
	require.NoError(t, err)

	p := &pipeline{
		publisher: &fakePublisher{record: &domain.MetadataRecord{
			Name:   "Test Token",
			Symbol: "TEST",
			URI:    "ipfs://meta",
		}},
		builder:     &fakeBuilder{unsigned: []byte{1, 2, 3}},
		signer:      &fakeSigner{cp: &domain.Checkpoint{Blockhash: "hash", LastValidBlockHeight: 1000}},
		broadcaster: &fakeBroadcaster{signature: "sig123"},
		records:     memory.NewLaunchRecordStore(),
		events:      memory.NewLaunchEventStore(),
	}
	p.launcher = New(Options{
		Publisher:   p.publisher,
		Builder:     p.builder,
		Signer:      p.signer,
		Broadcaster: p.broadcaster,
		Wallet:      wallet.NewLocalWallet(walletKP),
		RecordStore: p.records,
		EventStore:  p.events,
	})
	return p
}

func testRequest() domain.LaunchRequest {
	return domain.LaunchRequest{Name: "Test Token", Ticker: "TEST"}
}

func TestLauncher_Launch(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	result, err := p.launcher.Launch(ctx, testRequest())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "sig123", result.Signature)
	assert.Equal(t, "ipfs://meta", result.MetadataURI)
	assert.NotEmpty(t, result.Mint)

	// Each stage runs exactly once, and the builder sees the mint address
	// that ends up in the result.
	assert.Equal(t, 1, p.publisher.calls)
	assert.Equal(t, 1, p.builder.calls)
	assert.Equal(t, 1, p.signer.calls)
	assert.Equal(t, 1, p.broadcaster.calls)
	assert.Equal(t, result.Mint, p.builder.gotMint)

	// The surfaced secret key reconstructs the mint identity.
	mintKP, err := wallet.KeypairFromBase58(result.MintSecretKey)
	require.NoError(t, err)
	assert.Equal(t, result.Mint, mintKP.PublicAddress())

	record, err := p.records.GetByMint(ctx, result.Mint)
	require.NoError(t, err)
	assert.Equal(t, domain.LaunchStatusConfirmed, record.Status)
	require.NotNil(t, record.Signature)
	assert.Equal(t, "sig123", *record.Signature)
	assert.Nil(t, record.FailStage)

	events, err := p.events.GetByMint(ctx, result.Mint)
	require.NoError(t, err)
	require.Len(t, events, 4)
	for _, e := range events {
		assert.Equal(t, "ok", e.Status)
	}
}

func TestLauncher_Launch_AppliesDefaults(t *testing.T) {
	p := newPipeline(t)

	_, err := p.launcher.Launch(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "Test Token token", p.publisher.gotOpts.Description)
	assert.Equal(t, domain.DefaultLiquiditySOL, p.publisher.gotOpts.LiquiditySOL)
	assert.Equal(t, domain.DefaultSlippageBps, p.publisher.gotOpts.SlippageBps)
	assert.Equal(t, domain.DefaultPriorityFeeSOL, p.publisher.gotOpts.PriorityFeeSOL)
}

func TestLauncher_Launch_FreshMintPerLaunch(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	first, err := p.launcher.Launch(ctx, testRequest())
	require.NoError(t, err)
	second, err := p.launcher.Launch(ctx, testRequest())
	require.NoError(t, err)

	assert.NotEqual(t, first.Mint, second.Mint)
	assert.NotEqual(t, first.MintSecretKey, second.MintSecretKey)
}

func TestLauncher_Launch_InvalidRequest(t *testing.T) {
	p := newPipeline(t)

	_, err := p.launcher.Launch(context.Background(), domain.LaunchRequest{Ticker: "TEST"})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Equal(t, 0, p.publisher.calls)
}

func TestLauncher_Launch_PublishFailureShortCircuits(t *testing.T) {
	p := newPipeline(t)
	stageErr := &domain.UploadError{Status: "503 Service Unavailable"}
	p.publisher.err = stageErr
	ctx := context.Background()

	result, err := p.launcher.Launch(ctx, testRequest())
	assert.Nil(t, result)

	// The originating error passes through unchanged.
	var uploadErr *domain.UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Same(t, stageErr, uploadErr)

	assert.Equal(t, 0, p.builder.calls)
	assert.Equal(t, 0, p.signer.calls)
	assert.Equal(t, 0, p.broadcaster.calls)

	records, err := p.records.ListByStatus(ctx, domain.LaunchStatusFailed)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].FailStage)
	assert.Equal(t, "publish", *records[0].FailStage)
	assert.Nil(t, records[0].Signature)
	assert.Nil(t, records[0].MetadataURI)
}

func TestLauncher_Launch_BuildFailure(t *testing.T) {
	p := newPipeline(t)
	p.builder.err = &domain.BuildError{StatusCode: 400, Body: "bad request"}
	ctx := context.Background()

	_, err := p.launcher.Launch(ctx, testRequest())

	var buildErr *domain.BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, 0, p.signer.calls)

	records, err := p.records.ListByStatus(ctx, domain.LaunchStatusFailed)
	require.NoError(t, err)
	require.Len(t, records, 1)
	// Metadata published before the failure is preserved on the record.
	require.NotNil(t, records[0].MetadataURI)
	assert.Equal(t, "ipfs://meta", *records[0].MetadataURI)
}

func TestLauncher_Launch_ConfirmationTimeoutRecordedUnknown(t *testing.T) {
	p := newPipeline(t)
	p.broadcaster.err = &domain.ConfirmationTimeoutError{
		Signature:            "sigpending",
		LastValidBlockHeight: 1000,
	}
	ctx := context.Background()

	_, err := p.launcher.Launch(ctx, testRequest())

	var timeoutErr *domain.ConfirmationTimeoutError
	require.ErrorAs(t, err, &timeoutErr)

	records, err := p.records.ListByStatus(ctx, domain.LaunchStatusUnknown)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Signature)
	assert.Equal(t, "sigpending", *records[0].Signature)
}

func TestLauncher_Launch_ExecutionFailureKeepsSignature(t *testing.T) {
	p := newPipeline(t)
	p.broadcaster.err = &domain.ExecutionError{Signature: "sigfailed", Detail: "InstructionError"}
	ctx := context.Background()

	_, err := p.launcher.Launch(ctx, testRequest())

	var execErr *domain.ExecutionError
	require.ErrorAs(t, err, &execErr)

	records, err := p.records.ListByStatus(ctx, domain.LaunchStatusFailed)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].Signature)
	assert.Equal(t, "sigfailed", *records[0].Signature)
}

func TestLauncher_Launch_StorageFailureDoesNotAffectOutcome(t *testing.T) {
	walletKP, err := wallet.NewKeypair()
	require.NoError(t, err)

	l := New(Options{
		Publisher: &fakePublisher{record: &domain.MetadataRecord{
			Name: "T", Symbol: "T", URI: "ipfs://meta",
		}},
		Builder:     &fakeBuilder{unsigned: []byte{1}},
		Signer:      &fakeSigner{cp: &domain.Checkpoint{Blockhash: "hash"}},
		Broadcaster: &fakeBroadcaster{signature: "sig"},
		Wallet:      wallet.NewLocalWallet(walletKP),
		RecordStore: failingRecordStore{},
		EventStore:  failingEventStore{},
	})

	result, err := l.Launch(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "sig", result.Signature)
}

type failingRecordStore struct{}

func (failingRecordStore) Insert(context.Context, *domain.LaunchRecord) error {
	return errors.New("store down")
}
func (failingRecordStore) GetByMint(context.Context, string) (*domain.LaunchRecord, error) {
	return nil, errors.New("store down")
}
func (failingRecordStore) ListByStatus(context.Context, string) ([]*domain.LaunchRecord, error) {
	return nil, errors.New("store down")
}

type failingEventStore struct{}

func (failingEventStore) InsertBulk(context.Context, []*domain.LaunchEvent) error {
	return errors.New("store down")
}
func (failingEventStore) GetByMint(context.Context, string) ([]*domain.LaunchEvent, error) {
	return nil, errors.New("store down")
}
