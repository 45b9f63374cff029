// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts_test

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/api/accounts"
	"github.com/vechain/stakepool/test/datagen"
	"github.com/vechain/stakepool/test/testchain"
)

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func TestAccount(t *testing.T) {
	chain, err := testchain.NewIntegrationTestChain()
	require.NoError(t, err)
	defer chain.Close()

	router := mux.NewRouter()
	accounts.New(chain.Runtime()).Mount(router, "/accounts")
	ts := httptest.NewServer(router)
	defer ts.Close()

	t.Run("funded", func(t *testing.T) {
		body, code := httpGet(t, ts.URL+"/accounts/"+chain.Accounts()[0].Address.String())
		require.Equal(t, http.StatusOK, code)

		var acc accounts.Account
		require.NoError(t, json.Unmarshal(body, &acc))
		assert.True(t, acc.Exists)
		expected, _ := new(big.Int).SetString("1000000000000000000000000000", 10)
		assert.Equal(t, expected, (*big.Int)(acc.Balance))
	})

	t.Run("missing", func(t *testing.T) {
		body, code := httpGet(t, ts.URL+"/accounts/"+datagen.RandAddress().String())
		require.Equal(t, http.StatusOK, code)

		var acc accounts.Account
		require.NoError(t, json.Unmarshal(body, &acc))
		assert.False(t, acc.Exists)
		assert.Equal(t, 0, (*big.Int)(acc.Balance).Sign())
	})

	t.Run("bad address", func(t *testing.T) {
		_, code := httpGet(t, ts.URL+"/accounts/0xabc")
		assert.Equal(t, http.StatusBadRequest, code)
	})
}
