// Package checkpoint persists and restores run progress: a checkpoint
// file records (pmin, pmax, dmax, zmax, phase, last completed prime), and
// a resumed run rejects any mismatch of the five parameter fields,
// continuing from last_prime + 1.
package checkpoint

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// State is the persisted checkpoint record. ZmaxHi/ZmaxLo carry zmax's
// 128-bit value split into words, matching the rest of the module's
// 128-bit convention (modmath.ZmaxLD, check.ZMax128).
type State struct {
	Pmin, Pmax, Dmax      uint64
	ZmaxHi, ZmaxLo        uint64
	Phase                 int
	LastPrime             uint64
	Fingerprint           [32]byte
}

// fingerprint is a blake3 digest of the five required matching fields
// (pmin, pmax, dmax, zmaxHi, zmaxLo), stored alongside them so a resumed
// run can distinguish "stale/corrupt checkpoint" from "mismatched
// parameters" in its rejection error.
func fingerprint(pmin, pmax, dmax, zmaxHi, zmaxLo uint64) [32]byte {
	var buf [40]byte
	binary.LittleEndian.PutUint64(buf[0:], pmin)
	binary.LittleEndian.PutUint64(buf[8:], pmax)
	binary.LittleEndian.PutUint64(buf[16:], dmax)
	binary.LittleEndian.PutUint64(buf[24:], zmaxHi)
	binary.LittleEndian.PutUint64(buf[32:], zmaxLo)
	return blake3.Sum256(buf[:])
}

// New builds a State for the given run parameters and progress point,
// stamping in the fingerprint.
func New(pmin, pmax, dmax, zmaxHi, zmaxLo uint64, phase int, lastPrime uint64) State {
	return State{
		Pmin: pmin, Pmax: pmax, Dmax: dmax,
		ZmaxHi: zmaxHi, ZmaxLo: zmaxLo,
		Phase: phase, LastPrime: lastPrime,
		Fingerprint: fingerprint(pmin, pmax, dmax, zmaxHi, zmaxLo),
	}
}

// Save writes the checkpoint to path, replacing any prior contents.
func Save(path string, s State) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return fmt.Errorf("checkpoint: encode: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("checkpoint: write %s: %w", path, err)
	}
	return nil
}

// Load reads and validates a checkpoint file, rejecting a fingerprint
// mismatch before even comparing the five required fields (corruption
// vs. a genuinely different configuration).
func Load(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}, fmt.Errorf("checkpoint: read %s: %w", path, err)
	}
	var s State
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return State{}, fmt.Errorf("checkpoint: decode %s: %w", path, err)
	}
	want := fingerprint(s.Pmin, s.Pmax, s.Dmax, s.ZmaxHi, s.ZmaxLo)
	if want != s.Fingerprint {
		return State{}, fmt.Errorf("checkpoint: %s fails integrity check (corrupt or hand-edited)", path)
	}
	return s, nil
}

// Resume validates a loaded checkpoint against the current run's
// parameters, rejecting any mismatch of the five fields. On success it
// returns the prime to resume from (LastPrime + 1).
func Resume(s State, pmin, pmax, dmax, zmaxHi, zmaxLo uint64) (uint64, error) {
	if s.Pmin != pmin || s.Pmax != pmax || s.Dmax != dmax || s.ZmaxHi != zmaxHi || s.ZmaxLo != zmaxLo {
		return 0, fmt.Errorf("checkpoint: parameter mismatch: checkpoint is for pmin=%d pmax=%d dmax=%d zmax=(%d,%d)",
			s.Pmin, s.Pmax, s.Dmax, s.ZmaxHi, s.ZmaxLo)
	}
	if s.LastPrime == ^uint64(0) {
		return 0, io.EOF
	}
	return s.LastPrime + 1, nil
}
