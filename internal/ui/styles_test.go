package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoContainsPrefixAndMessage(t *testing.T) {
	result := Info("test message")
	assert.Contains(t, result, "ℹ")
	assert.Contains(t, result, "test message")
}

func TestHintContainsPrefixAndMessage(t *testing.T) {
	result := Hint("try this command")
	assert.Contains(t, result, "💡")
	assert.Contains(t, result, "try this command")
}

func TestSuccessContainsPrefixAndMessage(t *testing.T) {
	result := Success("done")
	assert.Contains(t, result, "✓")
	assert.Contains(t, result, "done")
}

func TestWarnContainsPrefixAndMessage(t *testing.T) {
	result := Warn("careful")
	assert.Contains(t, result, "⚠")
	assert.Contains(t, result, "careful")
}

func TestErrContainsPrefixAndMessage(t *testing.T) {
	result := Err("failed")
	assert.Contains(t, result, "✗")
	assert.Contains(t, result, "failed")
}

func TestAddrContainsAddress(t *testing.T) {
	assert.Contains(t, Addr("0xABCDEF"), "0xABCDEF")
}

func TestValContainsValue(t *testing.T) {
	assert.Contains(t, Val("1.5 ETH"), "1.5 ETH")
}

func TestChainNameContainsName(t *testing.T) {
	assert.Contains(t, ChainName("Ethereum"), "Ethereum")
}

func TestTruncateAddr(t *testing.T) {
	assert.Equal(t, "0xd8dA…6045", TruncateAddr("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"))
	assert.Equal(t, "0x1234", TruncateAddr("0x1234"))
}
