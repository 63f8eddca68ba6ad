// Command albacored is the devnet bootstrap binary: it wires
// config -> cryptoio -> chainstore -> blockchain -> transport -> metrics.
// It does not implement a sync protocol or peer discovery — only enough
// wiring to stand up a single-node (or manually-peered) devnet and
// expose its metrics and gossip surface.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/albatross-chain/albacore/block"
	"github.com/albatross-chain/albacore/blockchain"
	"github.com/albatross-chain/albacore/chainstore"
	"github.com/albatross-chain/albacore/config"
	"github.com/albatross-chain/albacore/inherents"
	"github.com/albatross-chain/albacore/observability/logging"
	"github.com/albatross-chain/albacore/observability/metrics"
	"github.com/albatross-chain/albacore/primitives"
	"github.com/albatross-chain/albacore/transport"
	"github.com/albatross-chain/albacore/transport/p2p"
	"github.com/albatross-chain/albacore/zkp"
)

const version = "v0.1.0"

func main() {
	genesisPath := flag.String("genesis", "genesis.yaml", "Path to genesis config YAML")
	dbPath := flag.String("db", "albacore.db", "Path to the chainstore database file")
	listenAddr := flag.String("listen", "/ip4/0.0.0.0/tcp/0", "libp2p listen multiaddr")
	metricsPort := flag.Int("metrics-port", 9100, "Prometheus metrics port")
	flag.Parse()

	logging.Init(slog.LevelInfo)
	logging.Banner(version)
	log := logging.NewComponentLogger(logging.CompNode)

	if err := run(*genesisPath, *dbPath, *listenAddr, *metricsPort, log); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(genesisPath, dbPath, listenAddr string, metricsPort int, log *slog.Logger) error {
	genesisCfg, err := config.LoadGenesisConfig(genesisPath)
	if err != nil {
		return fmt.Errorf("load genesis config: %w", err)
	}

	policy := primitives.DefaultPolicy()
	genesis, err := buildGenesisBlock(policy, genesisCfg)
	if err != nil {
		return fmt.Errorf("build genesis block: %w", err)
	}

	store, err := chainstore.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open chainstore: %w", err)
	}
	defer store.Close()

	chain, err := blockchain.New(policy, store, &noopAccounts{}, genesis)
	if err != nil {
		return fmt.Errorf("bootstrap chain: %w", err)
	}

	metrics.NodeInfo.WithLabelValues("albacored", version).Set(1)
	metrics.ValidatorsCount.Set(float64(len(genesisCfg.Validators)))
	metrics.HeadHeight.Set(float64(chain.HeadHeight()))
	metrics.Serve(metricsPort)
	log.Info("metrics server started", "port", metricsPort)

	// Proof generation itself is delegated to an external prover; the
	// devnet binary echoes the pk_tree commitment so the stream wiring
	// can be observed end to end.
	proofs := zkp.NewProofStream(func(ctx context.Context, electionHash [32]byte, pkTreeRoot []byte) ([]byte, error) {
		return pkTreeRoot, nil
	})
	defer proofs.Close()
	proofs.Submit(genesis.Hash(), genesis.Body.PkTreeRoot)
	go func() {
		for p := range proofs.Proofs() {
			log.Info("successor proof ready", "election", hex.EncodeToString(p.ElectionHash[:4]))
		}
	}()

	registry := transport.NewRegistry()
	registry.Register(transport.NewRequestType(transport.TypeIDStatus, true), func(ctx context.Context, payload []byte) ([]byte, error) {
		tip := chain.Tip()
		return tip[:], nil
	})

	ctx := context.Background()
	host, err := p2p.New(ctx, listenAddr)
	if err != nil {
		return fmt.Errorf("start p2p host: %w", err)
	}
	defer host.Close()
	log.Info("p2p host started", "peer_id", host.P2P.ID().String())

	if _, err := host.JoinTopic(fmt.Sprintf(p2p.MicroBlockTopicFmt, "devnet")); err != nil {
		return fmt.Errorf("join micro-block topic: %w", err)
	}
	if _, err := host.JoinTopic(fmt.Sprintf(p2p.MacroBlockTopicFmt, "devnet")); err != nil {
		return fmt.Errorf("join macro-block topic: %w", err)
	}

	log.Info("node started",
		"tip", hex.EncodeToString(func() []byte { h := chain.Tip(); return h[:] }()),
		"validators", len(genesisCfg.Validators),
	)

	select {}
}

// buildGenesisBlock constructs the genesis election macro block from
// a parsed GenesisConfig: one validator band per config entry, slot
// bands assigned in config order, and a recomputed pk_tree_root.
func buildGenesisBlock(policy primitives.Policy, cfg *config.GenesisConfig) (*block.MacroBlock, error) {
	infos := make([]*block.ValidatorInfo, len(cfg.Validators))
	var totalSlots uint32
	for i, v := range cfg.Validators {
		infos[i] = &block.ValidatorInfo{
			Address:       v.Address,
			VotingKey:     v.VotingKey,
			SigningKey:    v.SigningKey,
			RewardAddress: v.RewardAddress,
			NumSlots:      v.NumSlots,
		}
		totalSlots += v.NumSlots
	}
	if totalSlots != policy.Slots {
		return nil, fmt.Errorf("genesis validators cover %d slots, want %d", totalSlots, policy.Slots)
	}

	pkTreeRoot, err := zkp.PkTreeRoot(infos, policy)
	if err != nil {
		return nil, fmt.Errorf("compute genesis pk_tree_root: %w", err)
	}

	body := &block.MacroBody{
		Validators:    infos,
		PkTreeRoot:    pkTreeRoot,
		LostRewardSet: primitives.NewBitSet(policy.Slots),
		DisabledSet:   primitives.NewBitSet(policy.Slots),
	}
	header := &block.MacroHeader{
		MicroHeader: block.MicroHeader{
			Version:     policy.Version,
			BlockNumber: 0,
			Timestamp:   cfg.GenesisTime * 1000,
			BodyRoot:    body.Hash(),
		},
		Round: 0,
	}
	return &block.MacroBlock{
		Header:        header,
		Body:          body,
		Justification: &block.TendermintProof{},
	}, nil
}

// noopAccounts is a minimal in-memory stand-in for the opaque Accounts
// collaborator — transaction execution itself is out of scope here. It
// never rejects an inherent target and never changes its root, which
// is sufficient to exercise the chain wiring in this bootstrap binary
// without a real trie implementation.
type noopAccounts struct{}

func (noopAccounts) StateRoot() [32]byte                { return [32]byte{} }
func (noopAccounts) Accept(addr primitives.Address) bool { return true }
func (noopAccounts) ApplyMicro(b *block.MicroBlock) ([]byte, primitives.Coin, error) {
	return nil, 0, nil
}
func (noopAccounts) ApplyMacro(b *block.MacroBlock, ins []inherents.Inherent) ([]byte, error) {
	return nil, nil
}
func (noopAccounts) Revert(reverseDiff []byte) error { return nil }
