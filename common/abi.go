package common

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const registryABI = `[
{"type":"function","name":"setRecord","stateMutability":"nonpayable","inputs":[{"name":"node","type":"bytes32"},{"name":"owner","type":"address"},{"name":"resolver","type":"address"},{"name":"ttl","type":"uint64"}],"outputs":[]},
{"type":"function","name":"setOwner","stateMutability":"nonpayable","inputs":[{"name":"node","type":"bytes32"},{"name":"owner","type":"address"}],"outputs":[]},
{"type":"function","name":"setResolver","stateMutability":"nonpayable","inputs":[{"name":"node","type":"bytes32"},{"name":"resolver","type":"address"}],"outputs":[]},
{"type":"function","name":"owner","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"resolver","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"recordExists","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"bool"}]}
]`

const resolverABI = `[
{"type":"function","name":"setAddr","stateMutability":"nonpayable","inputs":[{"name":"node","type":"bytes32"},{"name":"addr","type":"address"}],"outputs":[]},
{"type":"function","name":"addr","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"setName","stateMutability":"nonpayable","inputs":[{"name":"node","type":"bytes32"},{"name":"name","type":"string"}],"outputs":[]},
{"type":"function","name":"name","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"string"}]},
{"type":"function","name":"setText","stateMutability":"nonpayable","inputs":[{"name":"node","type":"bytes32"},{"name":"key","type":"string"},{"name":"value","type":"string"}],"outputs":[]},
{"type":"function","name":"text","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"},{"name":"key","type":"string"}],"outputs":[{"name":"","type":"string"}]}
]`

const registrarABI = `[
{"type":"function","name":"register","stateMutability":"payable","inputs":[{"name":"name","type":"string"},{"name":"owner","type":"address"},{"name":"duration","type":"uint256"}],"outputs":[]},
{"type":"function","name":"renew","stateMutability":"payable","inputs":[{"name":"name","type":"string"},{"name":"duration","type":"uint256"}],"outputs":[]},
{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"name","type":"string"},{"name":"to","type":"address"}],"outputs":[]},
{"type":"function","name":"available","stateMutability":"view","inputs":[{"name":"name","type":"string"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"getDomain","stateMutability":"view","inputs":[{"name":"name","type":"string"}],"outputs":[{"name":"owner","type":"address"},{"name":"expires","type":"uint256"},{"name":"exists","type":"bool"},{"name":"tokenId","type":"uint256"}]},
{"type":"function","name":"getDomainsOfOwner","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"string[]"}]},
{"type":"function","name":"registrationFee","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"domains","stateMutability":"view","inputs":[{"name":"label","type":"bytes32"}],"outputs":[{"name":"owner","type":"address"},{"name":"expires","type":"uint256"},{"name":"exists","type":"bool"},{"name":"tokenId","type":"uint256"},{"name":"name","type":"string"}]},
{"type":"event","name":"DomainRegistered","anonymous":false,"inputs":[{"name":"name","type":"string","indexed":true},{"name":"label","type":"bytes32","indexed":true},{"name":"owner","type":"address","indexed":true},{"name":"expires","type":"uint256","indexed":false},{"name":"domainName","type":"string","indexed":false},{"name":"tokenId","type":"uint256","indexed":false}]},
{"type":"event","name":"Transfer","anonymous":false,"inputs":[{"name":"from","type":"address","indexed":true},{"name":"to","type":"address","indexed":true},{"name":"tokenId","type":"uint256","indexed":true}]}
]`

var (
	parsedRegistryABI  = mustParseABI(registryABI)
	parsedResolverABI  = mustParseABI(resolverABI)
	parsedRegistrarABI = mustParseABI(registrarABI)
)

func mustParseABI(def string) *abi.ABI {
	result, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return &result
}

func GetRegistryABI() *abi.ABI {
	return parsedRegistryABI
}

func GetResolverABI() *abi.ABI {
	return parsedResolverABI
}

func GetRegistrarABI() *abi.ABI {
	return parsedRegistrarABI
}
