package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pixel2gltf/internal/gltf"
	"pixel2gltf/internal/voxel"
)

// DefaultPath is the config file looked up in the working directory when PIXEL2GLTF_CONFIG is unset.
const DefaultPath = "pixel2gltf.yaml"

// Environment variables read by ApplyEnv and Path.
const (
	EnvConfig   = "PIXEL2GLTF_CONFIG"
	EnvTemplate = "PIXEL2GLTF_TEMPLATE"
	EnvLogFile  = "PIXEL2GLTF_LOG"
)

// Config holds conversion settings. Command-line flags override the cell size and background.
type Config struct {
	CellSize       int      `yaml:"cell_size"`
	Background     [3]uint8 `yaml:"background,flow"`
	VoxelDimension float32  `yaml:"voxel_dimension"`
	Template       string   `yaml:"template"`
	Indent         int      `yaml:"indent"`
	SolidRule      string   `yaml:"solid_rule"`
	LogFile        string   `yaml:"log_file,omitempty"`
}

// Default returns the settings of the stock tool: 25px cells on a (245,245,245) background,
// 2-unit voxels, template.gltf from the working directory and 3-space indentation.
func Default() Config {
	bg := voxel.DefaultBackground
	return Config{
		CellSize:       voxel.DefaultCellSize,
		Background:     [3]uint8{bg.R, bg.G, bg.B},
		VoxelDimension: voxel.DefaultVoxelDimension,
		Template:       "template.gltf",
		Indent:         gltf.DefaultIndent,
		SolidRule:      voxel.RuleAll.String(),
	}
}

// Path returns the config file to read: $PIXEL2GLTF_CONFIG if set, otherwise DefaultPath.
func Path() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads YAML settings from path on top of Default(). A missing file is not an error;
// an unreadable or invalid one is, and Default() is returned alongside the error.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return Default(), fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Default(), fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Validate rejects settings the converter cannot run with.
func (c Config) Validate() error {
	if c.CellSize <= 0 {
		return fmt.Errorf("cell_size must be positive, got %d", c.CellSize)
	}
	if c.VoxelDimension <= 0 {
		return fmt.Errorf("voxel_dimension must be positive, got %g", c.VoxelDimension)
	}
	if c.Template == "" {
		return fmt.Errorf("template is empty")
	}
	if _, err := voxel.ParseSolidRule(c.SolidRule); err != nil {
		return err
	}
	return nil
}

// ApplyEnv overrides the template and log file from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvTemplate); v != "" {
		c.Template = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
}

// VoxelOptions converts the settings for the voxel package.
func (c Config) VoxelOptions() (voxel.Options, error) {
	rule, err := voxel.ParseSolidRule(c.SolidRule)
	if err != nil {
		return voxel.Options{}, err
	}
	return voxel.Options{
		CellSize:       c.CellSize,
		Background:     voxel.RGB{R: c.Background[0], G: c.Background[1], B: c.Background[2]},
		VoxelDimension: c.VoxelDimension,
		Rule:           rule,
	}, nil
}
