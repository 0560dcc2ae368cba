package cash

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
)

func TestSendHandler(t *testing.T) {
	alice := ledgertest.NewCondition()
	bob := ledgertest.NewCondition()

	cases := map[string]struct {
		signer       ledger.Condition
		msg          ledger.Msg
		wantCheckErr *errors.Error
		wantErr      *errors.Error
		wantAlice    uint64
		wantBob      uint64
	}{
		"source signed": {
			signer: alice,
			msg: &SendMsg{
				Metadata:    ledger.NewMetadata(),
				Source:      alice.Address(),
				Destination: bob.Address(),
				Amount:      40,
			},
			wantAlice: 60,
			wantBob:   40,
		},
		"source did not sign": {
			signer: bob,
			msg: &SendMsg{
				Metadata:    ledger.NewMetadata(),
				Source:      alice.Address(),
				Destination: bob.Address(),
				Amount:      40,
			},
			wantCheckErr: errors.ErrUnauthorized,
			wantErr:      errors.ErrUnauthorized,
			wantAlice:    100,
		},
		"not enough funds": {
			signer: alice,
			msg: &SendMsg{
				Metadata:    ledger.NewMetadata(),
				Source:      alice.Address(),
				Destination: bob.Address(),
				Amount:      101,
			},
			wantErr:   errors.ErrAmount,
			wantAlice: 100,
		},
		"zero amount is rejected": {
			signer: alice,
			msg: &SendMsg{
				Metadata:    ledger.NewMetadata(),
				Source:      alice.Address(),
				Destination: bob.Address(),
			},
			wantCheckErr: errors.ErrAmount,
			wantErr:      errors.ErrAmount,
			wantAlice:    100,
		},
		"missing metadata": {
			signer: alice,
			msg: &SendMsg{
				Source:      alice.Address(),
				Destination: bob.Address(),
				Amount:      1,
			},
			wantCheckErr: errors.ErrMsg,
			wantErr:      errors.ErrMsg,
			wantAlice:    100,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController()
			assert.Nil(t, ctrl.Mint(db, alice.Address(), 100))

			auth := &ledgertest.Auth{Signer: tc.signer}
			h := NewSendHandler(auth, ctrl)
			tx := &ledgertest.Tx{Msg: tc.msg}

			_, err := h.Check(context.Background(), db, tx)
			if tc.wantCheckErr != nil {
				assert.IsErr(t, tc.wantCheckErr, err)
			} else {
				assert.Nil(t, err)
			}

			res, err := h.Deliver(context.Background(), db, tx)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
			} else {
				assert.Nil(t, err)
				assert.Equal(t, 1, len(res.Events))
				assert.Equal(t, EventTransfer, res.Events[0].Kind)
			}

			got, err := ctrl.Balance(db, alice.Address())
			assert.Nil(t, err)
			assert.Equal(t, tc.wantAlice, got)
			got, err = ctrl.Balance(db, bob.Address())
			assert.Nil(t, err)
			assert.Equal(t, tc.wantBob, got)
		})
	}
}

func TestGenesis(t *testing.T) {
	addr := ledgertest.RandomAddress()
	raw, err := json.Marshal([]GenesisAccount{{Address: addr, Balance: 500}})
	assert.Nil(t, err)

	db := store.MemStore()
	ctrl := NewController()
	opts := ledger.Options{"cash": raw}
	assert.Nil(t, NewInitializer(ctrl).FromGenesis(opts, db))

	got, err := ctrl.Balance(db, addr)
	assert.Nil(t, err)
	assert.Equal(t, uint64(500), got)

	bad := ledger.Options{"cash": json.RawMessage(`[{"address": "", "balance": 1}]`)}
	err = NewInitializer(ctrl).FromGenesis(bad, db)
	assert.IsErr(t, errors.ErrEmpty, err)
}
