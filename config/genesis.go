package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/albatross-chain/albacore/primitives"
	"gopkg.in/yaml.v3"
)

// GenesisValidator is one entry of the devnet genesis validator set:
// a parsed GENESIS_VALIDATORS record, still address/key-shaped rather
// than bound to a slot band (band assignment is the election block's
// job, driven by NumSlots).
type GenesisValidator struct {
	Address       primitives.Address
	VotingKey     []byte
	SigningKey    []byte
	RewardAddress primitives.Address
	NumSlots      uint32
}

// GenesisConfig represents the parsed config.yaml a devnet boots from:
// a genesis timestamp plus the initial validator set, which the host
// binary folds into the genesis election MacroBlock's body.
type GenesisConfig struct {
	GenesisTime uint64
	Validators  []GenesisValidator
}

// rawGenesisConfig is the on-disk YAML shape.
type rawGenesisConfig struct {
	GenesisTime uint64 `yaml:"genesis_time"`
	Validators  []struct {
		Address       string `yaml:"address"`
		VotingKey     string `yaml:"voting_key"`
		SigningKey    string `yaml:"signing_key"`
		RewardAddress string `yaml:"reward_address"`
		NumSlots      uint32 `yaml:"num_slots"`
	} `yaml:"validators"`
}

// LoadGenesisConfig loads and parses a genesis config YAML file.
func LoadGenesisConfig(path string) (*GenesisConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read genesis config: %w", err)
	}

	var raw rawGenesisConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parse genesis config: %w", err)
	}
	if len(raw.Validators) == 0 {
		return nil, fmt.Errorf("config: genesis validators must not be empty")
	}

	validators := make([]GenesisValidator, len(raw.Validators))
	var totalSlots uint32
	for i, v := range raw.Validators {
		addr, err := decodeAddress(v.Address)
		if err != nil {
			return nil, fmt.Errorf("config: validator %d address: %w", i, err)
		}
		rewardAddr := addr
		if v.RewardAddress != "" {
			rewardAddr, err = decodeAddress(v.RewardAddress)
			if err != nil {
				return nil, fmt.Errorf("config: validator %d reward_address: %w", i, err)
			}
		}
		votingKey, err := decodeHex(v.VotingKey)
		if err != nil {
			return nil, fmt.Errorf("config: validator %d voting_key: %w", i, err)
		}
		signingKey, err := decodeHex(v.SigningKey)
		if err != nil {
			return nil, fmt.Errorf("config: validator %d signing_key: %w", i, err)
		}
		if v.NumSlots == 0 {
			return nil, fmt.Errorf("config: validator %d num_slots must be > 0", i)
		}
		totalSlots += v.NumSlots
		validators[i] = GenesisValidator{
			Address:       addr,
			VotingKey:     votingKey,
			SigningKey:    signingKey,
			RewardAddress: rewardAddr,
			NumSlots:      v.NumSlots,
		}
	}

	return &GenesisConfig{GenesisTime: raw.GenesisTime, Validators: validators}, nil
}

func decodeAddress(s string) (primitives.Address, error) {
	b, err := decodeHex(s)
	if err != nil {
		return primitives.Address{}, err
	}
	if len(b) != 20 {
		return primitives.Address{}, fmt.Errorf("want 20 bytes, got %d", len(b))
	}
	var addr primitives.Address
	copy(addr[:], b)
	return addr, nil
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	return hex.DecodeString(s)
}
