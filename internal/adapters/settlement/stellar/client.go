package stellar

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stellar/go/clients/horizonclient"
	hProtocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/txnbuild"

	"github.com/stelvault/timelock_app/internal/apperrors"
	portssvc "github.com/stelvault/timelock_app/internal/core/ports/services"
)

// Stellar native-asset amounts carry 7 decimal places.
const amountPrecision = 7

// txTimeoutSeconds bounds how long a built transaction stays valid on the network.
const txTimeoutSeconds = 300

// horizonAPI is the slice of the Horizon client this adapter needs.
type horizonAPI interface {
	AccountDetail(request horizonclient.AccountRequest) (hProtocol.Account, error)
	SubmitTransactionXDR(transactionXdr string) (hProtocol.Transaction, error)
}

// Client implements the SettlementClient port against the Stellar network.
// It builds native-asset payments, has them signed by the configured signer and
// submits them to Horizon, normalizing every outcome to a transaction hash or a
// typed settlement error.
type Client struct {
	horizon           horizonAPI
	signer            TransactionSigner
	vaultAddress      string
	networkPassphrase string
}

// NewClient creates a settlement client against the given Horizon instance.
// vaultAddress is the lock-holding destination for inbound transfers; payouts are
// funded from the signer's account. The HTTP timeout bounds every Horizon round
// trip so an unresponsive network surfaces as unconfirmed rather than hanging.
func NewClient(horizonURL string, signer TransactionSigner, vaultAddress, networkPassphrase string, timeout time.Duration) *Client {
	return &Client{
		horizon: &horizonclient.Client{
			HorizonURL: horizonURL,
			HTTP:       &http.Client{Timeout: timeout},
		},
		signer:            signer,
		vaultAddress:      vaultAddress,
		networkPassphrase: networkPassphrase,
	}
}

// Ensure Client implements the SettlementClient port
var _ portssvc.SettlementClient = (*Client)(nil)

// SubmitLock transfers the principal from the signer's account into the vault.
// The unlock time is stamped on the transfer memo (TIMELOCK:<unix>) so the lock
// commitment is visible on the network.
func (c *Client) SubmitLock(ctx context.Context, amount decimal.Decimal, unlockAt time.Time) (string, error) {
	memo := fmt.Sprintf("TIMELOCK:%d", unlockAt.Unix())
	return c.submitPayment(ctx, c.vaultAddress, amount, memo)
}

// SubmitPayout transfers the payout amount from the signer's account to the
// destination, memo WITHDRAW.
func (c *Client) SubmitPayout(ctx context.Context, destination string, amount decimal.Decimal) (string, error) {
	return c.submitPayment(ctx, destination, amount, "WITHDRAW")
}

func (c *Client) submitPayment(ctx context.Context, destination string, amount decimal.Decimal, memo string) (string, error) {
	source, err := c.horizon.AccountDetail(horizonclient.AccountRequest{AccountID: c.signer.Address()})
	if err != nil {
		// Nothing has been submitted yet, so this is a plain failure.
		return "", fmt.Errorf("%w: failed to load source account: %v", apperrors.ErrSettlementFailed, err)
	}

	tx, err := txnbuild.NewTransaction(txnbuild.TransactionParams{
		SourceAccount:        &source,
		IncrementSequenceNum: true,
		Operations: []txnbuild.Operation{
			&txnbuild.Payment{
				Destination: destination,
				Amount:      amount.StringFixed(amountPrecision),
				Asset:       txnbuild.NativeAsset{},
			},
		},
		BaseFee:       txnbuild.MinBaseFee,
		Memo:          txnbuild.MemoText(memo),
		Preconditions: txnbuild.Preconditions{TimeBounds: txnbuild.NewTimeout(txTimeoutSeconds)},
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to build transaction: %v", apperrors.ErrSettlementFailed, err)
	}

	envelope, err := c.signer.SignEnvelope(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrSettlementFailed, err)
	}

	resp, err := c.horizon.SubmitTransactionXDR(envelope)
	if err != nil {
		return "", normalizeSubmitError(err)
	}
	return resp.Hash, nil
}

// normalizeSubmitError maps a Horizon submission error onto the settlement error
// taxonomy. A definitive rejection from Horizon is SettlementFailed; a timeout or
// transport error after the envelope may have reached the network is
// SettlementUnconfirmed, because the transaction could still be included.
func normalizeSubmitError(err error) error {
	if herr := horizonclient.GetError(err); herr != nil {
		if herr.Problem.Status == http.StatusGatewayTimeout {
			return fmt.Errorf("%w: horizon timed out before confirming", apperrors.ErrSettlementUnconfirmed)
		}
		if codes, cerr := herr.ResultCodes(); cerr == nil {
			return fmt.Errorf("%w: %s", apperrors.ErrSettlementFailed, codes.TransactionCode)
		}
		return fmt.Errorf("%w: %s", apperrors.ErrSettlementFailed, herr.Problem.Title)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", apperrors.ErrSettlementUnconfirmed, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", apperrors.ErrSettlementUnconfirmed, err)
	}

	// Unknown transport failure: the envelope may or may not have been accepted.
	return fmt.Errorf("%w: %v", apperrors.ErrSettlementUnconfirmed, err)
}
