package client

import (
	"context"
	"time"

	"github.com/iov-one/ledger/errors"
)

// SubscribeTxByID blocks until the transaction is in a block. Cancel the
// context to stop waiting.
func (c *Client) SubscribeTxByID(ctx context.Context, id TransactionID) (*CommitResult, error) {
	txs := make(chan CommitResult, 1)
	if err := c.SubscribeTx(ctx, QueryTxByID(id), txs); err != nil {
		return nil, err
	}
	res, ok := <-txs
	if !ok {
		return nil, errors.Wrap(errors.ErrTimeout, "unsubscribed before result")
	}
	return &res, nil
}

// WatchTx blocks until the transaction is in a block. It returns at once if
// the transaction was already committed.
func (c *Client) WatchTx(ctx context.Context, id TransactionID) (*CommitResult, error) {
	subctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sub := make(chan resultOrError, 1)
	go func() {
		res, err := c.SubscribeTxByID(subctx, id)
		sub <- resultOrError{result: res, err: err}
	}()

	// Not found is expected here, the subscription covers that case.
	if search, err := c.GetTxByID(ctx, id); err == nil && search != nil {
		return search, nil
	}

	select {
	case result := <-sub:
		return result.result, result.err
	case <-ctx.Done():
		return nil, errors.Wrap(errors.ErrTimeout, ctx.Err().Error())
	}
}

// CommitTx submits the transaction and waits until it is finalized. A
// transaction that failed in the block is returned as an error.
func (c *Client) CommitTx(ctx context.Context, tx []byte) (*CommitResult, error) {
	id, err := c.SubmitTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	res, err := c.WatchTx(ctx, id)
	if err != nil {
		return nil, err
	}
	c.waitForTxIndex()
	if res.Err != nil {
		return res, res.Err
	}
	return res, nil
}

// WaitForNextBlock returns the next block header.
func (c *Client) WaitForNextBlock(ctx context.Context) (*Header, error) {
	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	headers := make(chan Header, 1)
	if err := c.SubscribeHeaders(cctx, headers); err != nil {
		return nil, err
	}
	h, ok := <-headers
	if !ok {
		return nil, errors.Wrap(errors.ErrNetwork, "subscription closed without returning any headers")
	}
	c.waitForTxIndex()
	return &h, nil
}

// WaitForHeight returns the first header at or above height. If the height
// is in the past, it waits for the next block.
func (c *Client) WaitForHeight(ctx context.Context, height int64) (*Header, error) {
	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	headers := make(chan Header, 2)
	if err := c.SubscribeHeaders(cctx, headers); err != nil {
		return nil, err
	}
	for h := range headers {
		if h.Height >= height {
			c.waitForTxIndex()
			return &h, nil
		}
	}
	return nil, errors.Wrapf(errors.ErrNetwork, "subscription closed before height %d", height)
}

// waitForTxIndex gives the node time to index the transactions of the last
// block, so that they can be searched.
func (c *Client) waitForTxIndex() {
	time.Sleep(100 * time.Millisecond)
}
