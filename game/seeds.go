package game

import (
	"bufio"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cespare/xxhash"
	"lukechampine.com/frand"
)

const SeedSize = 32

// Seed is the 32 bytes of entropy behind a reproducible run.
type Seed [SeedSize]byte

var errEmptySeed = errors.New("seed must not be empty")

// GenerateSeed creates a fresh random seed.
func GenerateSeed() Seed {
	return Seed(frand.Entropy256())
}

// String is the URL-safe base64 form, which ParseSeed accepts.
func (s Seed) String() string {
	return base64.RawURLEncoding.EncodeToString(s[:])
}

// ParseSeed accepts the base64 form produced by Seed.String. Anything else
// (for example "42") is hashed into a seed, so short human-typed seeds
// work too.
func ParseSeed(str string) (Seed, error) {
	var seed Seed
	str = strings.TrimSpace(str)
	if str == "" {
		return seed, errEmptySeed
	}
	// Try URL-safe first, then standard encoding.
	decoded, err := base64.RawURLEncoding.DecodeString(str)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(str)
	}
	if err == nil && len(decoded) == SeedSize {
		copy(seed[:], decoded)
		return seed, nil
	}
	return hashSeed([]byte(str)), nil
}

// DeriveSeed deterministically derives an independent seed for a numbered
// stream, e.g. one per worker thread.
func DeriveSeed(base Seed, stream int) Seed {
	buf := make([]byte, SeedSize+8)
	copy(buf, base[:])
	binary.LittleEndian.PutUint64(buf[SeedSize:], uint64(stream))
	return hashSeed(buf)
}

func hashSeed(b []byte) Seed {
	var seed Seed
	buf := make([]byte, len(b)+1)
	copy(buf[1:], b)
	for i := 0; i < SeedSize/8; i++ {
		buf[0] = byte(i)
		binary.LittleEndian.PutUint64(seed[i*8:], xxhash.Sum64(buf))
	}
	return seed
}

// GenerateSeeds creates n random seeds, e.g. for a file of reproducible
// batch runs.
func GenerateSeeds(n int) []Seed {
	seeds := make([]Seed, n)
	for i := range seeds {
		seeds[i] = GenerateSeed()
	}
	return seeds
}

// SaveSeeds writes seeds to a file, one base64 seed per line.
func SaveSeeds(seeds []Seed, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create seed file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	_, err = writer.WriteString("# montyhall seeds (base64 URL-safe encoded, 32 bytes each)\n")
	if err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, seed := range seeds {
		if _, err = writer.WriteString(seed.String() + "\n"); err != nil {
			return fmt.Errorf("failed to write seed %d: %w", i, err)
		}
	}
	return writer.Flush()
}

// LoadSeeds reads a file written by SaveSeeds. Blank lines and lines
// starting with # are skipped. Unlike ParseSeed, every line must be a real
// 32-byte base64 seed.
func LoadSeeds(path string) ([]Seed, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer file.Close()

	var seeds []Seed
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		decoded, err := base64.RawURLEncoding.DecodeString(line)
		if err != nil {
			decoded, err = base64.RawStdEncoding.DecodeString(line)
			if err != nil {
				return nil, fmt.Errorf("failed to decode seed at line %d: %w", lineNum, err)
			}
		}
		if len(decoded) != SeedSize {
			return nil, fmt.Errorf("invalid seed length at line %d: got %d bytes, expected %d",
				lineNum, len(decoded), SeedSize)
		}
		seeds = append(seeds, Seed(decoded))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading seed file: %w", err)
	}
	return seeds, nil
}
