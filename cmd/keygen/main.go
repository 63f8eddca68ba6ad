// Command keygen generates validator voting (BLS) and signing
// (Ed25519) keypairs for a devnet, printing a genesis validators YAML
// fragment consumable by config.LoadGenesisConfig.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/albatross-chain/albacore/cryptoio"
)

func main() {
	count := flag.Int("validators", 5, "Number of validator keypairs to generate")
	outDir := flag.String("keys-dir", "keys", "Output directory for keys")
	slotsEach := flag.Uint("slots", 1, "Number of slots assigned to each validator in the printed YAML")
	printYAML := flag.Bool("print-yaml", false, "Print a genesis validators YAML fragment to stdout")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	type generated struct {
		votingPub  []byte
		signingPub []byte
	}
	var keys []generated

	fmt.Printf("Generating %d validator keypairs in %s...\n", *count, *outDir)
	for i := 0; i < *count; i++ {
		votingSK, err := cryptoio.GenerateVotingKey()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to generate voting key %d: %v\n", i, err)
			os.Exit(1)
		}
		signingSK, err := cryptoio.GenerateSigningKey()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to generate signing key %d: %v\n", i, err)
			os.Exit(1)
		}

		if err := cryptoio.SaveVotingKey(votingSK, filepath.Join(*outDir, fmt.Sprintf("validator_%d.voting.sk", i))); err != nil {
			fmt.Fprintf(os.Stderr, "failed to save voting key %d: %v\n", i, err)
			os.Exit(1)
		}
		if err := cryptoio.SaveSigningKey(signingSK, filepath.Join(*outDir, fmt.Sprintf("validator_%d.signing.sk", i))); err != nil {
			fmt.Fprintf(os.Stderr, "failed to save signing key %d: %v\n", i, err)
			os.Exit(1)
		}

		signingPub, err := signingSK.PublicKey().Bytes()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode signing public key %d: %v\n", i, err)
			os.Exit(1)
		}

		keys = append(keys, generated{
			votingPub:  votingSK.PublicKey().Bytes(),
			signingPub: signingPub,
		})
		fmt.Printf("Generated validator %d\n", i)
	}

	if *printYAML {
		fmt.Println("\nvalidators:")
		for i, k := range keys {
			fmt.Printf("  - address: \"0x%040x\"\n", i+1)
			fmt.Printf("    voting_key: \"0x%s\"\n", hex.EncodeToString(k.votingPub))
			fmt.Printf("    signing_key: \"0x%s\"\n", hex.EncodeToString(k.signingPub))
			fmt.Printf("    num_slots: %d\n", *slotsEach)
		}
	}
}
