package balance

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// selectorBalanceOf is balanceOf(address).
var selectorBalanceOf = []byte{0x70, 0xa0, 0x82, 0x31}

// balanceOfCalldata encodes balanceOf(owner): the selector followed by the
// owner left-padded to a 32-byte word, as lowercase hex.
func balanceOfCalldata(owner common.Address) string {
	data := make([]byte, 0, 4+32)
	data = append(data, selectorBalanceOf...)
	data = append(data, common.LeftPadBytes(owner.Bytes(), 32)...)
	return hexutil.Encode(data)
}
