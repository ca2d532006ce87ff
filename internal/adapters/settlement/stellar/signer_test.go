package stellar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/network"
	"github.com/stellar/go/txnbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestTransaction(t *testing.T, sourceAddress string) *txnbuild.Transaction {
	t.Helper()
	source := txnbuild.NewSimpleAccount(sourceAddress, 1)
	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &source,
		IncrementSequenceNum: true,
		Operations: []txnbuild.Operation{
			&txnbuild.Payment{
				Destination: keypair.MustRandom().Address(),
				Amount:      "100.0000000",
				Asset:       txnbuild.NativeAsset{},
			},
		},
		BaseFee:       txnbuild.MinBaseFee,
		Preconditions: txnbuild.Preconditions{TimeBounds: txnbuild.NewInfiniteTimeout()},
	})
	require.NoError(t, err)
	return tx
}

func TestNewLocalSignerRejectsBadSeed(t *testing.T) {
	_, err := NewLocalSigner("not-a-seed", network.TestNetworkPassphrase)
	assert.Error(t, err)
}

func TestLocalSignerSignEnvelope(t *testing.T) {
	kp := keypair.MustRandom()
	signer, err := NewLocalSigner(kp.Seed(), network.TestNetworkPassphrase)
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), signer.Address())

	tx := buildTestTransaction(t, kp.Address())
	envelope, err := signer.SignEnvelope(context.Background(), tx)
	require.NoError(t, err)
	require.NotEmpty(t, envelope)

	generic, err := txnbuild.TransactionFromXDR(envelope)
	require.NoError(t, err)
	signed, ok := generic.Transaction()
	require.True(t, ok)
	assert.Len(t, signed.Signatures(), 1)
}

func TestDelegatedSignerSignEnvelope(t *testing.T) {
	kp := keypair.MustRandom()
	tx := buildTestTransaction(t, kp.Address())

	var received signRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(signResponse{SignedTransaction: "signed-envelope-xdr"})
	}))
	defer server.Close()

	signer := NewDelegatedSigner(kp.Address(), server.URL)
	assert.Equal(t, kp.Address(), signer.Address())

	envelope, err := signer.SignEnvelope(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, "signed-envelope-xdr", envelope)

	// The signer receives the unsigned envelope untouched.
	unsigned, err := tx.Base64()
	require.NoError(t, err)
	assert.Equal(t, unsigned, received.Transaction)
}

func TestDelegatedSignerRejectsNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	kp := keypair.MustRandom()
	signer := NewDelegatedSigner(kp.Address(), server.URL)
	signer.client.RetryMax = 0

	_, err := signer.SignEnvelope(context.Background(), buildTestTransaction(t, kp.Address()))
	assert.ErrorContains(t, err, "status 403")
}

func TestDelegatedSignerRejectsEmptyEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(signResponse{})
	}))
	defer server.Close()

	kp := keypair.MustRandom()
	signer := NewDelegatedSigner(kp.Address(), server.URL)

	_, err := signer.SignEnvelope(context.Background(), buildTestTransaction(t, kp.Address()))
	assert.ErrorContains(t, err, "empty envelope")
}
