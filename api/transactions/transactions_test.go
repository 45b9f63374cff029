// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/api/transactions"
	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/test/datagen"
	"github.com/vechain/stakepool/test/testchain"
	"github.com/vechain/stakepool/tx"
)

var (
	ts    *httptest.Server
	chain *testchain.Chain
)

func initTransactionServer(t *testing.T) {
	var err error
	chain, err = testchain.NewIntegrationTestChain()
	require.NoError(t, err)
	t.Cleanup(func() { chain.Close() })

	router := mux.NewRouter()
	transactions.New(chain.Runtime()).Mount(router, "/transactions")
	ts = httptest.NewServer(router)
	t.Cleanup(ts.Close)
}

func httpPost(t *testing.T, url string, obj any) ([]byte, int) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func build(t *testing.T, req *transactions.BuildRequest) *transactions.UnsignedTx {
	body, code := httpPost(t, ts.URL+"/transactions/build", req)
	require.Equal(t, http.StatusOK, code, string(body))
	var unsigned transactions.UnsignedTx
	require.NoError(t, json.Unmarshal(body, &unsigned))
	return &unsigned
}

// sign does what a wallet would do with a built tx.
func sign(t *testing.T, unsigned *transactions.UnsignedTx, signer genesis.DevAccount) string {
	data, err := hexutil.Decode(unsigned.Raw)
	require.NoError(t, err)
	var trx *tx.Transaction
	require.NoError(t, rlp.DecodeBytes(data, &trx))
	require.Equal(t, unsigned.SigningHash, trx.SigningHash())

	sig, err := crypto.Sign(unsigned.SigningHash.Bytes(), signer.PrivateKey)
	require.NoError(t, err)
	raw, err := rlp.EncodeToBytes(trx.WithSignature(sig))
	require.NoError(t, err)
	return hexutil.Encode(raw)
}

func send(t *testing.T, raw string) (*transactions.Receipt, int) {
	body, code := httpPost(t, ts.URL+"/transactions", &transactions.RawTx{Raw: raw})
	if code != http.StatusOK {
		return nil, code
	}
	var receipt transactions.Receipt
	require.NoError(t, json.Unmarshal(body, &receipt))
	return &receipt, code
}

func period(p int64) *int64 {
	return &p
}

func amount(a uint64) *math.HexOrDecimal64 {
	v := math.HexOrDecimal64(a)
	return &v
}

func TestBuildAndSend(t *testing.T) {
	initTransactionServer(t)
	authority, user := chain.Accounts()[0], chain.Accounts()[1]

	unsigned := build(t, &transactions.BuildRequest{Op: "initializePool", Period: period(100), Origin: &authority.Address})
	assert.Equal(t, chain.Now()+1800, uint64(unsigned.Expiration))

	receipt, code := send(t, sign(t, unsigned, authority))
	require.Equal(t, http.StatusOK, code)
	assert.False(t, receipt.Reverted)
	assert.Equal(t, "initializePool", receipt.Op)
	assert.Equal(t, authority.Address, receipt.Origin)
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, "PoolInitialized", receipt.Events[0].Name)
	assert.Equal(t, int64(100), receipt.Events[0].StakingPeriod)

	receipt, code = send(t, sign(t, build(t, &transactions.BuildRequest{Op: "stake", Amount: amount(500)}), user))
	require.Equal(t, http.StatusOK, code)
	assert.False(t, receipt.Reverted)
	require.Len(t, receipt.Transfers, 2)
	assert.Equal(t, user.Address, receipt.Transfers[1].Sender)
	assert.Equal(t, int64(500), (*big.Int)(receipt.Transfers[1].Amount).Int64())

	// fetch it back
	body, code := httpGet(t, ts.URL+"/transactions/"+receipt.TxID.String()+"/receipt")
	require.Equal(t, http.StatusOK, code)
	var fetched transactions.Receipt
	require.NoError(t, json.Unmarshal(body, &fetched))
	assert.Equal(t, *receipt, fetched)
}

func TestBuildSimulatesOrigin(t *testing.T) {
	initTransactionServer(t)
	authority, user := chain.Accounts()[0], chain.Accounts()[1]

	tests := []struct {
		name   string
		req    *transactions.BuildRequest
		status int
		msg    string
	}{
		{"no pool", &transactions.BuildRequest{Op: "stake", Amount: amount(1), Origin: &user.Address}, http.StatusPreconditionFailed, "PoolNotInitialized"},
		{"zero amount", &transactions.BuildRequest{Op: "stake", Amount: amount(0), Origin: &user.Address}, http.StatusBadRequest, "InvalidAmount"},
		{"nothing to unstake", &transactions.BuildRequest{Op: "unstake", Origin: &user.Address}, http.StatusPreconditionFailed, "NoActiveStake"},
		{"unknown op", &transactions.BuildRequest{Op: "withdraw"}, http.StatusBadRequest, "unknown op"},
		{"missing amount", &transactions.BuildRequest{Op: "stake"}, http.StatusBadRequest, "amount required"},
		{"missing period", &transactions.BuildRequest{Op: "adjustPeriod"}, http.StatusBadRequest, "period required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, code := httpPost(t, ts.URL+"/transactions/build", tt.req)
			assert.Equal(t, tt.status, code)
			assert.Contains(t, string(body), tt.msg)
		})
	}

	require.NoError(t, chain.InitializePool(10))
	body, code := httpPost(t, ts.URL+"/transactions/build", &transactions.BuildRequest{Op: "initializePool", Period: period(1), Origin: &authority.Address})
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, string(body), "AlreadyInitialized")

	body, code = httpPost(t, ts.URL+"/transactions/build", &transactions.BuildRequest{Op: "adjustPeriod", Period: period(1), Origin: &user.Address})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Contains(t, string(body), "Unauthorized")

	// simulation leaves no trace
	p, err := chain.Runtime().Staker().Pool()
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.StakingPeriod)
}

func TestSendRejected(t *testing.T) {
	initTransactionServer(t)
	authority, user := chain.Accounts()[0], chain.Accounts()[1]
	require.NoError(t, chain.InitializePool(10))

	// business rule failures are executed and reported in the receipt
	raw := sign(t, build(t, &transactions.BuildRequest{Op: "adjustPeriod", Period: period(1)}), user)
	receipt, code := send(t, raw)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, receipt.Reverted)
	assert.Equal(t, "Unauthorized", receipt.RevertKind)
	assert.Empty(t, receipt.Events)

	_, code = send(t, raw)
	assert.Equal(t, http.StatusForbidden, code)

	unsigned := build(t, &transactions.BuildRequest{Op: "unstake"})
	_, code = send(t, unsigned.Raw)
	assert.Equal(t, http.StatusBadRequest, code, "unsigned")

	expired := build(t, &transactions.BuildRequest{Op: "unstake", Expiration: amount(chain.Now() - 1)})
	_, code = send(t, sign(t, expired, authority))
	assert.Equal(t, http.StatusBadRequest, code, "expired")

	_, code = send(t, "0xzz")
	assert.Equal(t, http.StatusBadRequest, code)

	body, code := httpPost(t, ts.URL+"/transactions", map[string]string{"data": "0x"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(body), "unknown field")
}

func TestGetReceipt(t *testing.T) {
	initTransactionServer(t)

	body, code := httpGet(t, ts.URL+"/transactions/"+datagen.RandBytes32().String()+"/receipt")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "null", strings.TrimSpace(string(body)))

	_, code = httpGet(t, ts.URL+"/transactions/0x01/receipt")
	assert.Equal(t, http.StatusBadRequest, code)
}
