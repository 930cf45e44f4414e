// Package chaincfg maps the network magic found in a UTXO snapshot header to
// the network the snapshot was taken on.
package chaincfg

import (
	"encoding/hex"
	"fmt"
	"sort"
	"sync"

	"github.com/bsv-blockchain/utxodump/errors"
)

// NetMagic is the 4-byte message start of a network, in the order it is
// written on the wire.
type NetMagic [4]byte

func (m NetMagic) String() string {
	return hex.EncodeToString(m[:])
}

// Params describes a network a snapshot can come from.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net defines the magic bytes used to identify the network.
	Net NetMagic
}

var (
	MainNetParams  = Params{Name: "Mainnet", Net: NetMagic{0xf9, 0xbe, 0xb4, 0xd9}}
	SigNetParams   = Params{Name: "Signet", Net: NetMagic{0x0a, 0x03, 0xcf, 0x40}}
	TestNet3Params = Params{Name: "Testnet3", Net: NetMagic{0x0b, 0x11, 0x09, 0x07}}
	TestNet4Params = Params{Name: "Testnet4", Net: NetMagic{0x1c, 0x16, 0x3f, 0x28}}
	RegTestParams  = Params{Name: "Regtest", Net: NetMagic{0xfa, 0xbf, 0xb5, 0xda}}
)

var (
	// ErrDuplicateNet describes an error where the parameters for a network
	// could not be set due to the network already being a standard
	// network or previously-registered into this package.
	ErrDuplicateNet = errors.NewConfigurationError("duplicate network")

	registeredNets = make(map[NetMagic]*Params)
	mu             sync.RWMutex
)

// Register registers the network parameters for a network magic. This may
// error with ErrDuplicateNet if the network is already registered.
func Register(params *Params) error {
	mu.Lock()
	defer mu.Unlock()

	if _, ok := registeredNets[params.Net]; ok {
		return errors.NewConfigurationError("network %s (%s) already registered", params.Name, params.Net, ErrDuplicateNet)
	}

	registeredNets[params.Net] = params

	return nil
}

func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("failed to register network: " + err.Error())
	}
}

// ParamsForMagic returns the registered network for magic, if any.
func ParamsForMagic(magic NetMagic) (*Params, bool) {
	mu.RLock()
	defer mu.RUnlock()

	p, ok := registeredNets[magic]

	return p, ok
}

// NetworkName returns the display name of the network with the given magic,
// or "unknown network (<hex>)" when the magic is not registered.
func NetworkName(magic NetMagic) string {
	if p, ok := ParamsForMagic(magic); ok {
		return p.Name
	}

	return fmt.Sprintf("unknown network (%s)", magic)
}

// Networks returns all registered networks sorted by name.
func Networks() []*Params {
	mu.RLock()
	defer mu.RUnlock()

	nets := make([]*Params, 0, len(registeredNets))
	for _, p := range registeredNets {
		nets = append(nets, p)
	}

	sort.Slice(nets, func(i, j int) bool {
		return nets[i].Name < nets[j].Name
	})

	return nets
}

func init() {
	mustRegister(&MainNetParams)
	mustRegister(&SigNetParams)
	mustRegister(&TestNet3Params)
	mustRegister(&TestNet4Params)
	mustRegister(&RegTestParams)
}
