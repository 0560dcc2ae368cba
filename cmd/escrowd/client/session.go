/*
Package client is a typed session over the rpc client. It builds, signs
and submits escrow transactions and reads escrows and balances back.
*/
package client

import (
	"context"
	"strings"

	"github.com/iov-one/ledger"
	rpc "github.com/iov-one/ledger/client"
	"github.com/iov-one/ledger/cmd/escrowd/app"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/cash"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
)

// Session talks to a single chain.
type Session struct {
	rpc     *rpc.Client
	chainID string
}

// NewSession returns a session for the chain with given id.
func NewSession(c *rpc.Client, chainID string) *Session {
	return &Session{rpc: c, chainID: chainID}
}

// Dial connects to a remote node and reads its chain id.
func Dial(ctx context.Context, remote string) (*Session, error) {
	c := rpc.NewClient(rpc.NewHTTPConnection(remote))
	chainID, err := c.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	return NewSession(c, chainID), nil
}

// ChainID returns the id of the chain transactions are signed for.
func (s *Session) ChainID() string {
	return s.chainID
}

// RPC returns the underlying rpc client.
func (s *Session) RPC() *rpc.Client {
	return s.rpc
}

// Nonce returns the sequence the next signature of addr must use.
func (s *Session) Nonce(addr ledger.Address) (int64, error) {
	var user sigs.UserData
	switch err := s.queryOne("/auth", addr, &user); {
	case errors.ErrNotFound.Is(err):
		return 0, nil
	case err != nil:
		return 0, err
	}
	return user.Sequence, nil
}

// Sign adds a signature made with key, using its current nonce.
func (s *Session) Sign(tx *app.Tx, key *crypto.PrivateKey) error {
	nonce, err := s.Nonce(key.PublicKey().Address())
	if err != nil {
		return errors.Wrap(err, "nonce")
	}
	sig, err := sigs.SignTx(key, tx, s.chainID, nonce)
	if err != nil {
		return err
	}
	tx.AppendSignature(sig)
	return nil
}

// Commit submits the transaction and waits until it is in a block.
func (s *Session) Commit(ctx context.Context, tx *app.Tx) (*rpc.CommitResult, error) {
	raw, err := ledger.Marshal(tx)
	if err != nil {
		return nil, err
	}
	return s.rpc.CommitTx(ctx, raw)
}

func (s *Session) signAndCommit(ctx context.Context, key *crypto.PrivateKey, msg ledger.Msg) (*rpc.CommitResult, error) {
	tx, err := app.NewTx(msg)
	if err != nil {
		return nil, err
	}
	if err := s.Sign(tx, key); err != nil {
		return nil, err
	}
	return s.Commit(ctx, tx)
}

// Deploy creates an escrow funded with value from the account of key and
// returns its id once the deployment is final.
func (s *Session) Deploy(ctx context.Context, key *crypto.PrivateKey, arbiter, beneficiary ledger.Address, value uint64) ([]byte, error) {
	res, err := s.signAndCommit(ctx, key, &escrow.DeployMsg{
		Metadata:    ledger.NewMetadata(),
		Arbiter:     arbiter,
		Beneficiary: beneficiary,
		Amount:      value,
	})
	if err != nil {
		return nil, err
	}
	return res.Result.Data, nil
}

// Approve releases the escrow funds. Key must belong to the arbiter.
func (s *Session) Approve(ctx context.Context, key *crypto.PrivateKey, id []byte) error {
	_, err := s.signAndCommit(ctx, key, &escrow.ApproveMsg{
		Metadata: ledger.NewMetadata(),
		EscrowID: id,
	})
	return err
}

// Send moves funds from the account of key.
func (s *Session) Send(ctx context.Context, key *crypto.PrivateKey, dst ledger.Address, amount uint64, memo string) error {
	_, err := s.signAndCommit(ctx, key, &cash.SendMsg{
		Metadata:    ledger.NewMetadata(),
		Source:      key.PublicKey().Address(),
		Destination: dst,
		Amount:      amount,
		Memo:        memo,
	})
	return err
}

// Escrow returns the state of an escrow.
func (s *Session) Escrow(id []byte) (*escrow.Escrow, error) {
	var esc escrow.Escrow
	if err := s.queryOne("/escrows", id, &esc); err != nil {
		return nil, errors.Wrapf(err, "escrow %s", escrow.FormatID(id))
	}
	return &esc, nil
}

// EscrowRecord is an escrow together with its id.
type EscrowRecord struct {
	ID     []byte
	Escrow *escrow.Escrow
}

// EscrowsBy lists the escrows a party takes part in. Role is one of
// "arbiter", "beneficiary" or "depositor".
func (s *Session) EscrowsBy(role string, addr ledger.Address) ([]EscrowRecord, error) {
	switch role {
	case "arbiter", "beneficiary", "depositor":
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown role %q", role)
	}
	models, err := s.rpc.AbciQuery("/escrows/"+role, addr)
	if err != nil {
		return nil, err
	}
	out := make([]EscrowRecord, 0, len(models))
	for _, m := range models {
		var esc escrow.Escrow
		if err := ledger.Unmarshal(m.Value, &esc); err != nil {
			return nil, err
		}
		out = append(out, EscrowRecord{ID: escrow.IDFromKey(m.Key), Escrow: &esc})
	}
	return out, nil
}

// Balance returns the funds held by addr. An unknown account holds zero.
func (s *Session) Balance(addr ledger.Address) (uint64, error) {
	var w cash.Wallet
	switch err := s.queryOne("/wallets", addr, &w); {
	case errors.ErrNotFound.Is(err):
		return 0, nil
	case err != nil:
		return 0, err
	}
	return w.Balance, nil
}

// WatchApproved blocks until the escrow is approved or ctx is done. It
// returns at once for an already approved escrow.
func (s *Session) WatchApproved(ctx context.Context, id []byte) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Subscribe first so that an approval between the two calls is not
	// missed.
	txs := make(chan rpc.CommitResult, 4)
	if err := s.rpc.SubscribeTx(ctx, approvedQuery(id), txs); err != nil {
		return err
	}

	esc, err := s.Escrow(id)
	if err != nil {
		return err
	}
	if esc.IsApproved {
		return nil
	}

	for {
		select {
		case res, ok := <-txs:
			if !ok {
				return errors.Wrap(errors.ErrTimeout, "subscription closed")
			}
			if res.Err == nil {
				return nil
			}
		case <-ctx.Done():
			return errors.Wrap(errors.ErrTimeout, ctx.Err().Error())
		}
	}
}

func approvedQuery(id []byte) rpc.TxQuery {
	return strings.Join([]string{
		rpc.QueryTxByTag("escrow", escrow.FormatID(id)),
		rpc.QueryTxByTag("action", "approve"),
	}, " AND ")
}

// queryOne returns ErrNotFound if nothing is stored under key.
func (s *Session) queryOne(path string, key []byte, dst ledger.Persistent) error {
	models, err := s.rpc.AbciQuery(path, key)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		return errors.ErrNotFound
	}
	return ledger.Unmarshal(models[0].Value, dst)
}
