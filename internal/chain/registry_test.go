package chain_test

import (
	"testing"

	"github.com/Mohsinsiddi/walletfetch/internal/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNetworks() []chain.Network {
	return []chain.Network{
		{ChainID: 8453, Name: "Base", RPCURL: "https://base.example"},
		{ChainID: 1, Name: "Ethereum", RPCURL: "https://eth.example", Tokens: []chain.TokenSpec{
			{Symbol: "USDC", Address: common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"), Decimals: 6},
			{Symbol: "DAI", Address: common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"), Decimals: 18},
		}},
		{ChainID: 137, Name: "Polygon", RPCURL: "https://polygon.example", NativeSymbol: "POL"},
	}
}

func TestNetworkSetSortedByName(t *testing.T) {
	set, err := chain.NewNetworkSet(testNetworks()...)
	require.NoError(t, err)

	var names []string
	for _, n := range set.All() {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"Base", "Ethereum", "Polygon"}, names)
	assert.Equal(t, 3, set.Len())
}

func TestNetworkSetRejectsDuplicateName(t *testing.T) {
	_, err := chain.NewNetworkSet(
		chain.Network{ChainID: 11155111, Name: "Testnet"},
		chain.Network{ChainID: 5, Name: "testnet"},
	)
	var dup *chain.DuplicateNetworkNameError
	require.ErrorAs(t, err, &dup)
	assert.ElementsMatch(t, []uint64{5, 11155111}, []uint64{dup.First, dup.Second})
	assert.Contains(t, err.Error(), "duplicate network name")
}

func TestNetworkSetRejectsDuplicateChainID(t *testing.T) {
	_, err := chain.NewNetworkSet(
		chain.Network{ChainID: 1, Name: "Ethereum"},
		chain.Network{ChainID: 1, Name: "Mainnet"},
	)
	var dup *chain.DuplicateChainIDError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, uint64(1), dup.ChainID)
}

func TestNetworkSetUnits(t *testing.T) {
	set := chain.MustNetworkSet(testNetworks()...)
	// 3 natives + 2 tokens.
	assert.Equal(t, 5, set.Units())
}

func TestNetworkSetEmpty(t *testing.T) {
	set, err := chain.NewNetworkSet()
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	assert.Empty(t, set.All())
}

func TestGetByChainID(t *testing.T) {
	set := chain.MustNetworkSet(testNetworks()...)
	n, err := set.GetByChainID(8453)
	require.NoError(t, err)
	assert.Equal(t, "Base", n.Name)
}

func TestGetByChainIDUnknown(t *testing.T) {
	set := chain.MustNetworkSet(testNetworks()...)
	_, err := set.GetByChainID(99999)
	assert.ErrorIs(t, err, chain.ErrChainNotFound)
}

func TestGetByNameCaseInsensitive(t *testing.T) {
	set := chain.MustNetworkSet(testNetworks()...)
	n, err := set.GetByName("polygon")
	require.NoError(t, err)
	assert.Equal(t, uint64(137), n.ChainID)

	_, err = set.GetByName("unknownchain")
	assert.ErrorIs(t, err, chain.ErrChainNotFound)
}

func TestNativeSymbolDefault(t *testing.T) {
	assert.Equal(t, "ETH", chain.Network{}.Symbol())
	assert.Equal(t, "POL", chain.Network{NativeSymbol: "POL"}.Symbol())
}

func TestAllReturnsCopy(t *testing.T) {
	set := chain.MustNetworkSet(testNetworks()...)
	all := set.All()
	all[0].Name = "mutated"
	assert.Equal(t, "Base", set.All()[0].Name)
}
