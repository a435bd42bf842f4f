package positionmanager

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// positionTokenDomainName is the EIP-712 domain of the position token.
const positionTokenDomainName = "Uniswap V4 Positions NFT"

// GetPermitData assembles the EIP-712 typed data a position owner signs to
// authorize a spender for one position token. The resulting signature is
// what NFTPermitOptions carries.
func GetPermitData(permit NFTPermitValues, positionManager common.Address, chainID uint64) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Permit": []apitypes.Type{
				{Name: "spender", Type: "address"},
				{Name: "tokenId", Type: "uint256"},
				{Name: "nonce", Type: "uint256"},
				{Name: "deadline", Type: "uint256"},
			},
		},
		PrimaryType: "Permit",
		Domain: apitypes.TypedDataDomain{
			Name:              positionTokenDomainName,
			ChainId:           math.NewHexOrDecimal256(int64(chainID)),
			VerifyingContract: positionManager.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"spender":  permit.Spender.Hex(),
			"tokenId":  permit.TokenId.String(),
			"nonce":    permit.Nonce.String(),
			"deadline": permit.Deadline.String(),
		},
	}
}

// PermitSigningHash is the digest to sign for the given permit data.
func PermitSigningHash(data apitypes.TypedData) (common.Hash, error) {
	hash, _, err := apitypes.TypedDataAndHash(data)
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(hash), nil
}
