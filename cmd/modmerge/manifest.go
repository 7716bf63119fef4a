package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"modmerge/internal/modfile"
	"modmerge/internal/resolve"
)

type mergeManifest struct {
	Path   string
	Root   string
	Config mergeConfig
}

type mergeConfig struct {
	Paths pathsConfig `toml:"paths"`
	IDs   idsConfig   `toml:"ids"`
}

type pathsConfig struct {
	Mods []string `toml:"mods"`
}

// rangeConfig bounds are pointers so a partial override ([ids.monster]
// with only a ceiling) keeps the other bound at its built-in default.
type rangeConfig struct {
	Floor   *int64 `toml:"floor"`
	Ceiling *int64 `toml:"ceiling"`
}

type idsConfig struct {
	Sentinels []int64      `toml:"sentinels"`
	Montag    *rangeConfig `toml:"montag"`
	Monster   *rangeConfig `toml:"monster"`
	Weapon    *rangeConfig `toml:"weapon"`
	Armor     *rangeConfig `toml:"armor"`
	Item      *rangeConfig `toml:"item"`
	Site      *rangeConfig `toml:"site"`
	Nation    *rangeConfig `toml:"nation"`
	Spell     *rangeConfig `toml:"spell"`
}

func findMergeToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "merge.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadMergeManifest walks upward from startDir looking for merge.toml.
// Absence is not an error: defaults apply.
func loadMergeManifest(startDir string) (*mergeManifest, bool, error) {
	manifestPath, ok, err := findMergeToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg mergeConfig
	if _, err := toml.DecodeFile(manifestPath, &cfg); err != nil {
		return nil, true, fmt.Errorf("%s: failed to parse TOML: %w", manifestPath, err)
	}
	return &mergeManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// policy applies manifest overrides on top of the built-in defaults.
func (c mergeConfig) policy() (resolve.Policy, error) {
	p := resolve.DefaultPolicy()

	overrides := map[modfile.EntityType]*rangeConfig{
		modfile.EntityMonster: c.IDs.Monster,
		modfile.EntityWeapon:  c.IDs.Weapon,
		modfile.EntityArmor:   c.IDs.Armor,
		modfile.EntityItem:    c.IDs.Item,
		modfile.EntitySite:    c.IDs.Site,
		modfile.EntityNation:  c.IDs.Nation,
		modfile.EntitySpell:   c.IDs.Spell,
	}
	for t, rc := range overrides {
		if rc == nil {
			continue
		}
		rng, err := rc.toRange(p.Ranges[t])
		if err != nil {
			return resolve.Policy{}, fmt.Errorf("[ids.%s]: %w", t, err)
		}
		p.Ranges[t] = rng
	}
	if c.IDs.Montag != nil {
		rng, err := c.IDs.Montag.toRange(p.Montag)
		if err != nil {
			return resolve.Policy{}, fmt.Errorf("[ids.montag]: %w", err)
		}
		p.Montag = rng
	}
	for _, s := range c.IDs.Sentinels {
		id, err := safecast.Conv[int32](s)
		if err != nil {
			return resolve.Policy{}, fmt.Errorf("sentinel %d out of range: %w", s, err)
		}
		p.Sentinels[id] = true
	}
	return p, nil
}

// toRange applies the configured bounds on top of def; an absent bound
// keeps the default.
func (rc rangeConfig) toRange(def resolve.Range) (resolve.Range, error) {
	rng := def
	if rc.Floor != nil {
		floor, err := safecast.Conv[int32](*rc.Floor)
		if err != nil {
			return resolve.Range{}, fmt.Errorf("floor out of range: %w", err)
		}
		rng.Floor = floor
	}
	if rc.Ceiling != nil {
		ceiling, err := safecast.Conv[int32](*rc.Ceiling)
		if err != nil {
			return resolve.Range{}, fmt.Errorf("ceiling out of range: %w", err)
		}
		rng.Ceiling = ceiling
	}
	if rng.Ceiling < rng.Floor {
		return resolve.Range{}, fmt.Errorf("ceiling %d below floor %d", rng.Ceiling, rng.Floor)
	}
	return rng, nil
}
