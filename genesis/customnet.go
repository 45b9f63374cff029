// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakepool/thor"
)

// CustomGenesis is user customized genesis
type CustomGenesis struct {
	Accounts []Account `yaml:"accounts"`
	Params   Params    `yaml:"params"`
	Pool     *Pool     `yaml:"pool"`
}

// Account is an account funded by the genesis.
type Account struct {
	Address string           `yaml:"address"`
	Balance *HexOrDecimal256 `yaml:"balance"`
}

// Params are the initial governance params. Unset values take the defaults.
type Params struct {
	RecordRent         *HexOrDecimal256 `yaml:"recordRent"`
	MinRetainedBalance *HexOrDecimal256 `yaml:"minRetainedBalance"`
}

// Pool optionally initializes the staking pool at genesis.
type Pool struct {
	Authority     string `yaml:"authority"`
	StakingPeriod int64  `yaml:"stakingPeriod"`
}

// HexOrDecimal256 is a big integer written in yaml as a hex or decimal string.
type HexOrDecimal256 math.HexOrDecimal256

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (i *HexOrDecimal256) UnmarshalYAML(value *yaml.Node) error {
	bigint, ok := math.ParseBig256(value.Value)
	if !ok {
		return fmt.Errorf("line %d: invalid hex or decimal integer %q", value.Line, value.Value)
	}
	*i = HexOrDecimal256(*bigint)
	return nil
}

func (i *HexOrDecimal256) toBig() *big.Int {
	return new(big.Int).Set((*big.Int)(i))
}

// LoadCustomGenesis reads a genesis file.
func LoadCustomGenesis(path string) (*CustomGenesis, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open genesis file")
	}
	defer f.Close()

	var gen CustomGenesis
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis file")
	}
	return &gen, nil
}

// NewCustomNet create custom network genesis.
func NewCustomNet(gen *CustomGenesis) (*Genesis, error) {
	alloc := &allocation{
		RecordRent:         thor.InitialRecordRent,
		MinRetainedBalance: thor.InitialMinRetainedBalance,
	}
	if gen.Params.RecordRent != nil {
		alloc.RecordRent = gen.Params.RecordRent.toBig()
	}
	if gen.Params.MinRetainedBalance != nil {
		alloc.MinRetainedBalance = gen.Params.MinRetainedBalance.toBig()
	}
	// params are stored unsigned
	if alloc.RecordRent.Sign() < 0 {
		return nil, fmt.Errorf("recordRent must not be negative, got %v", alloc.RecordRent)
	}
	if alloc.MinRetainedBalance.Sign() < 0 {
		return nil, fmt.Errorf("minRetainedBalance must not be negative, got %v", alloc.MinRetainedBalance)
	}

	seen := make(map[thor.Address]bool)
	for _, a := range gen.Accounts {
		addr, err := thor.ParseAddress(a.Address)
		if err != nil {
			return nil, errors.Wrapf(err, "account %q", a.Address)
		}
		if seen[addr] {
			return nil, fmt.Errorf("%s: duplicated account", addr)
		}
		seen[addr] = true
		if a.Balance == nil {
			return nil, fmt.Errorf("%s: balance must be set", addr)
		}
		balance := a.Balance.toBig()
		if balance.Sign() < 1 {
			return nil, fmt.Errorf("%s: balance must be a non-zero integer", addr)
		}
		alloc.Accounts = append(alloc.Accounts, allocAccount{addr, balance})
	}

	if gen.Pool != nil {
		authority, err := thor.ParseAddress(gen.Pool.Authority)
		if err != nil {
			return nil, errors.Wrap(err, "pool authority")
		}
		if !seen[authority] && alloc.RecordRent.Sign() > 0 {
			return nil, fmt.Errorf("%s: pool authority must be funded to pay the record rent", authority)
		}
		alloc.Pool = &allocPool{Authority: authority, StakingPeriod: uint64(gen.Pool.StakingPeriod)}
	}

	return newGenesis("customnet", alloc)
}
