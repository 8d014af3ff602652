package app

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"pixel2gltf/internal/cli"
	"pixel2gltf/internal/config"
	"pixel2gltf/internal/env"
	"pixel2gltf/internal/gltf"
	"pixel2gltf/internal/imagesrc"
	"pixel2gltf/internal/logger"
	"pixel2gltf/internal/voxel"
)

// EnvFile is loaded from the working directory before the config is read.
const EnvFile = ".env"

var (
	ErrConfig       = errors.New("could not load config file")
	ErrImageLoad    = errors.New("could not load image file")
	ErrTemplateLoad = errors.New("could not load template glTF file")
	ErrOutputWrite  = errors.New("could not save generated glTF file")
)

// Error ties one of the Err* kinds to the file it concerns and the underlying cause.
type Error struct {
	Kind error
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	return strings.ToUpper(msg[:1]) + msg[1:] + " '" + e.Path + "'"
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Result describes a finished conversion.
type Result struct {
	OutputPath string
	Cells      int
	Voxels     int
}

// Run executes the command line args (without the program name) and returns the exit code.
func Run(args []string, stdout io.Writer) int {
	if len(args) == 0 {
		logger.New(stdout, "").Print(cli.Usage)
		return 0
	}

	envErr := env.Load(EnvFile)
	cfgPath := config.Path()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log := logger.New(stdout, "")
		logEnvError(log, envErr)
		log.Error((&Error{Kind: ErrConfig, Path: cfgPath, Err: err}).Error())
		log.Log(err.Error())
		return 1
	}
	cfg.ApplyEnv()
	imagePath, _ := cli.Parse(args, &cfg)

	log := logger.New(stdout, cfg.LogFile)
	logEnvError(log, envErr)
	res, err := Convert(imagePath, cfg, log)
	if err != nil {
		log.Error(err.Error())
		var e *Error
		if errors.As(err, &e) && e.Err != nil {
			log.Log(e.Err.Error())
		}
		return 1
	}
	log.Success(fmt.Sprintf("Generated to '%s'", res.OutputPath))
	return 0
}

func logEnvError(log *logger.Logger, err error) {
	if err != nil {
		log.Logf("ignoring %s: %v", EnvFile, err)
	}
}

// Convert voxelizes the image at imagePath onto the configured template and writes the
// result next to the image. Errors are *Error values.
func Convert(imagePath string, cfg config.Config, log *logger.Logger) (Result, error) {
	opts, err := cfg.VoxelOptions()
	if err != nil {
		return Result{}, &Error{Kind: ErrConfig, Path: config.Path(), Err: err}
	}

	buf, err := imagesrc.Load(imagePath)
	if err != nil {
		return Result{}, &Error{Kind: ErrImageLoad, Path: imagePath, Err: err}
	}
	log.Logf("loaded %s: %dx%d, %d channels", imagePath, buf.Width, buf.Height, buf.Channels)

	doc, err := gltf.Load(cfg.Template)
	if err == nil {
		err = doc.ValidateTemplate()
	}
	if err != nil {
		return Result{}, &Error{Kind: ErrTemplateLoad, Path: cfg.Template, Err: err}
	}

	grid := voxel.NewGrid(buf, opts)
	cols, rows := grid.Size()
	n := voxel.NewBuilder(doc, opts, buf.Width, buf.Height).Build(grid.SolidCells())
	log.Logf("cell size %d, grid %dx%d, %d solid cells, rule %s", opts.CellSize, cols, rows, n, opts.Rule)

	out := OutputPath(imagePath)
	if err := gltf.Save(doc, out, cfg.Indent); err != nil {
		return Result{}, &Error{Kind: ErrOutputWrite, Path: out, Err: err}
	}
	return Result{OutputPath: out, Cells: cols * rows, Voxels: n}, nil
}

// OutputPath returns the .gltf path written for an input image: same directory, same stem.
func OutputPath(imagePath string) string {
	base := filepath.Base(imagePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	return filepath.Join(filepath.Dir(imagePath), stem+".gltf")
}
