package util

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/term"

	nnscommon "github.com/tranvictor/nns/common"
	"github.com/tranvictor/nns/config"
	"github.com/tranvictor/nns/contracts"
	"github.com/tranvictor/nns/metrics"
	"github.com/tranvictor/nns/networks"
	"github.com/tranvictor/nns/nns"
	"github.com/tranvictor/nns/util/account"
	"github.com/tranvictor/nns/util/broadcaster"
	"github.com/tranvictor/nns/util/cache"
	"github.com/tranvictor/nns/util/monitor"
	"github.com/tranvictor/nns/util/reader"
)

// Chain is the connection to the configured nodes.
type Chain struct {
	Network     networks.Network
	Nodes       map[string]string
	Reader      *reader.EthReader
	Broadcaster *broadcaster.Broadcaster
	// Cache remembers the chain id behind a node set. May be nil.
	Cache *cache.File
}

func Dial(cfg *config.Config, l *zap.Logger) (*Chain, error) {
	network, err := cfg.GetNetwork()
	if err != nil {
		return nil, err
	}
	nodes, err := cfg.NodeURLs()
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no node configured for %s", network.GetName())
	}
	return &Chain{
		Network:     network,
		Nodes:       nodes,
		Reader:      reader.NewEthReaderGeneric(nodes, cfg.Tx.RPCTimeout),
		Broadcaster: broadcaster.NewGenericBroadcaster(nodes, cfg.Tx.RPCTimeout, l),
		Cache:       cache.Default(),
	}, nil
}

func (c *Chain) chainIDKey() string {
	urls := make([]string, 0, len(c.Nodes))
	for _, url := range c.Nodes {
		urls = append(urls, url)
	}
	sort.Strings(urls)
	return "chain-id:" + strings.Join(urls, ",")
}

// ChainID returns the cached id of the node set, else asks the nodes, else
// falls back to the network's known id.
func (c *Chain) ChainID(ctx context.Context) *big.Int {
	key := c.chainIDKey()
	if cached, found := c.Cache.Get(key); found {
		if id, ok := new(big.Int).SetString(cached, 10); ok {
			return id
		}
	}
	id, err := c.Reader.ChainID(ctx)
	if err != nil || id == nil {
		return new(big.Int).SetUint64(c.Network.GetChainID())
	}
	_ = c.Cache.Set(key, id.String())
	return id
}

// LoadAccount opens the signing key given on the command line. It returns
// nil without error when no key was given. A keystore without a password
// flag prompts for one.
func LoadAccount() (*account.Account, error) {
	switch {
	case config.PrivateKey != "":
		return account.NewPrivateKeyAccount(config.PrivateKey)
	case config.KeystoreFile != "":
		password := config.KeystorePass
		if password == "" {
			fmt.Fprintf(os.Stderr, "Keystore password: ")
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return nil, fmt.Errorf("couldn't read keystore password: %w", err)
			}
			password = string(raw)
		}
		return account.NewKeystoreAccount(config.KeystoreFile, password)
	case config.KeyFile != "":
		return account.NewKeyFileAccount(config.KeyFile)
	}
	return nil, nil
}

// ServiceOptions carries what NewService wires beyond the configuration.
type ServiceOptions struct {
	// Account signs writes. Without it the service is read only.
	Account *account.Account
	// Guard authorizes writes. Defaults to the account itself.
	Guard   nns.Authorizer
	MaxWait time.Duration
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// NewService builds the contract bindings over chain and the flows on top
// of them.
func NewService(ctx context.Context, cfg *config.Config, chain *Chain, opts ServiceOptions) (*nns.Service, error) {
	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}
	addresses := map[string]string{
		"registry":  cfg.Contracts.Registry,
		"resolver":  cfg.Contracts.Resolver,
		"registrar": cfg.Contracts.Registrar,
	}
	parsed := map[string]common.Address{}
	for name, hex := range addresses {
		addr, err := nnscommon.ParseAddress(hex)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		parsed[name] = addr
	}

	bindingOpts := contracts.Options{
		Caller:  chain.Reader,
		Logger:  l,
		Metrics: opts.Metrics,
	}
	guard := opts.Guard
	if opts.Account != nil {
		maxWait := opts.MaxWait
		if maxWait == 0 {
			maxWait = cfg.Tx.ConfirmTimeout
		}
		txMonitor := monitor.NewGenericTxMonitor(chain.Reader, cfg.Tx.PollInterval, maxWait)
		if cfg.Tx.LostAfter > 0 {
			txMonitor = txMonitor.WithLostAfter(cfg.Tx.LostAfter)
		}
		bindingOpts.Transactor = contracts.NewTxSender(
			chain.Reader,
			chain.Broadcaster,
			txMonitor,
			opts.Account,
			chain.ChainID(ctx),
			cfg.Tx.ExtraGasLimit,
			l,
		)
		if guard == nil {
			guard = nns.SignerAuthorizer{Address: opts.Account.AddressHex()}
		}
	}

	return nns.NewService(nns.Options{
		Registry:    contracts.NewRegistry(parsed["registry"], bindingOpts),
		Resolver:    contracts.NewResolver(parsed["resolver"], bindingOpts),
		Registrar:   contracts.NewRegistrar(parsed["registrar"], bindingOpts),
		Guard:       guard,
		TLD:         cfg.GetTLD(),
		MinDuration: cfg.MinDuration,
		Metadata: nns.MetadataOptions{
			ExternalURL:     cfg.Server.ExternalURL,
			DefaultImageURL: cfg.Server.DefaultImageURL,
		},
		Logger:  l,
		Metrics: opts.Metrics,
	}), nil
}
