package sigs

import (
	"testing"

	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
)

func TestBuildSignBytes(t *testing.T) {
	a, err := BuildSignBytes([]byte("payload"), "test-chain", 1)
	assert.Nil(t, err)
	if len(a) != 64 {
		t.Fatalf("want sha512 digest, got %d bytes", len(a))
	}

	b, err := BuildSignBytes([]byte("payload"), "test-chain", 2)
	assert.Nil(t, err)
	if string(a) == string(b) {
		t.Fatal("nonce must change the digest")
	}
	c, err := BuildSignBytes([]byte("payload"), "other-chain", 1)
	assert.Nil(t, err)
	if string(a) == string(c) {
		t.Fatal("chain id must change the digest")
	}

	_, err = BuildSignBytes([]byte("payload"), "x", 1)
	assert.IsErr(t, errors.ErrInput, err)
	_, err = BuildSignBytes([]byte("payload"), "test-chain", -1)
	assert.IsErr(t, ErrSequence, err)
}

func TestVerifySignature(t *testing.T) {
	const chainID = "test-chain"
	key := crypto.GenPrivKeyEd25519()
	other := crypto.GenPrivKeyEd25519()

	cases := map[string]struct {
		sign    func(tx *signedTx) *StdSignature
		wantErr *errors.Error
	}{
		"valid signature": {
			sign: func(tx *signedTx) *StdSignature {
				sig, err := SignTx(key, tx, chainID, 0)
				assert.Nil(t, err)
				return sig
			},
		},
		"wrong nonce": {
			sign: func(tx *signedTx) *StdSignature {
				sig, err := SignTx(key, tx, chainID, 3)
				assert.Nil(t, err)
				return sig
			},
			wantErr: ErrSequence,
		},
		"wrong chain": {
			sign: func(tx *signedTx) *StdSignature {
				sig, err := SignTx(key, tx, "another-chain", 0)
				assert.Nil(t, err)
				return sig
			},
			wantErr: errors.ErrUnauthorized,
		},
		"pubkey does not match signature": {
			sign: func(tx *signedTx) *StdSignature {
				sig, err := SignTx(key, tx, chainID, 0)
				assert.Nil(t, err)
				sig.Pubkey = other.PublicKey().Bytes()
				return sig
			},
			wantErr: errors.ErrUnauthorized,
		},
		"missing signature": {
			sign: func(tx *signedTx) *StdSignature {
				return &StdSignature{Pubkey: key.PublicKey().Bytes()}
			},
			wantErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			tx := &signedTx{Payload: []byte("hello")}
			tx.Signatures = []*StdSignature{tc.sign(tx)}

			signers, err := VerifyTxSignatures(db, tx, chainID)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, 1, len(signers))
			if !signers[0].Equals(key.PublicKey().Condition()) {
				t.Fatalf("unexpected signer: %s", signers[0])
			}

			seq, err := NextSequence(db, key.PublicKey().Address())
			assert.Nil(t, err)
			assert.Equal(t, int64(1), seq)
		})
	}
}

func TestReplayIsRejected(t *testing.T) {
	const chainID = "test-chain"
	key := crypto.GenPrivKeyEd25519()
	db := store.MemStore()

	tx := &signedTx{Payload: []byte("hello")}
	sig, err := SignTx(key, tx, chainID, 0)
	assert.Nil(t, err)
	tx.Signatures = []*StdSignature{sig}

	_, err = VerifyTxSignatures(db, tx, chainID)
	assert.Nil(t, err)
	_, err = VerifyTxSignatures(db, tx, chainID)
	assert.IsErr(t, ErrSequence, err)

	sig, err = SignTx(key, tx, chainID, 1)
	assert.Nil(t, err)
	tx.Signatures = []*StdSignature{sig}
	_, err = VerifyTxSignatures(db, tx, chainID)
	assert.Nil(t, err)
}
