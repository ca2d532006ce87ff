package stellar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
)

// TransactionSigner turns an unsigned transaction into a signed envelope XDR.
// Secret material never leaves the signer; the rest of the adapter, and the core
// above it, only ever see envelope strings and transaction hashes.
type TransactionSigner interface {
	// Address returns the network address whose account funds the transfers.
	Address() string
	// SignEnvelope returns the base64 signed envelope XDR for the transaction.
	SignEnvelope(ctx context.Context, tx *txnbuild.Transaction) (string, error)
}

// LocalSigner signs with a secret seed held in process. The keypair is parsed once
// at construction and used only inside SignEnvelope.
type LocalSigner struct {
	kp                *keypair.Full
	networkPassphrase string
}

// NewLocalSigner parses the secret seed and returns a signer bound to the network.
func NewLocalSigner(secretSeed, networkPassphrase string) (*LocalSigner, error) {
	kp, err := keypair.ParseFull(secretSeed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signing key: %w", err)
	}
	return &LocalSigner{kp: kp, networkPassphrase: networkPassphrase}, nil
}

func (s *LocalSigner) Address() string {
	return s.kp.Address()
}

func (s *LocalSigner) SignEnvelope(_ context.Context, tx *txnbuild.Transaction) (string, error) {
	signed, err := tx.Sign(s.networkPassphrase, s.kp)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}
	envelope, err := signed.Base64()
	if err != nil {
		return "", fmt.Errorf("failed to encode signed envelope: %w", err)
	}
	return envelope, nil
}

// DelegatedSigner hands the unsigned envelope to an external signer service (a
// wallet bridge or custody signer holding the key) and expects exactly one
// response shape back: {"signedTransaction": "<base64 envelope XDR>"}. Provider
// shape differences are that service's concern, not ours.
type DelegatedSigner struct {
	address  string
	endpoint string
	client   *retryablehttp.Client
}

type signRequest struct {
	Transaction string `json:"transaction"`
}

type signResponse struct {
	SignedTransaction string `json:"signedTransaction"`
}

// NewDelegatedSigner returns a signer that delegates to the service at endpoint
// for the account at address.
func NewDelegatedSigner(address, endpoint string) *DelegatedSigner {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.Logger = nil
	return &DelegatedSigner{address: address, endpoint: endpoint, client: client}
}

func (s *DelegatedSigner) Address() string {
	return s.address
}

func (s *DelegatedSigner) SignEnvelope(ctx context.Context, tx *txnbuild.Transaction) (string, error) {
	envelope, err := tx.Base64()
	if err != nil {
		return "", fmt.Errorf("failed to encode unsigned envelope: %w", err)
	}

	body, err := json.Marshal(signRequest{Transaction: envelope})
	if err != nil {
		return "", fmt.Errorf("failed to marshal sign request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build sign request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("signer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("signer returned status %d", resp.StatusCode)
	}

	var signed signResponse
	if err := json.NewDecoder(resp.Body).Decode(&signed); err != nil {
		return "", fmt.Errorf("failed to decode signer response: %w", err)
	}
	if signed.SignedTransaction == "" {
		return "", fmt.Errorf("signer returned an empty envelope")
	}
	return signed.SignedTransaction, nil
}
