package sinks

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/tarungka/rxwire/internal/logger"
)

// FileSink appends every value to a file, one decimal value per line. The
// buffered output is flushed on completion, on error and on Close.
type FileSink struct {
	sinkBase

	filePath string
	file     *os.File
	w        *bufio.Writer
}

var _ Sink = (*FileSink)(nil)

// NewFileSink opens filePath for appending, creating parent directories.
func NewFileSink(filePath string) (*FileSink, error) {
	if filePath == "" {
		return nil, fmt.Errorf("%w: file_path", ErrMissingConfig)
	}
	log.Trace().Str("file_path", filePath).Msg("Preparing to open file for writing")

	// Ensure parent directory exists
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Err(err).Str("directory", dir).Msg("Failed to create parent directories")
		return nil, fmt.Errorf("failed to create parent directories: %w", err)
	}

	// Warn if the file already exists
	if _, err := os.Stat(filePath); err == nil {
		log.Warn().Str("file_path", filePath).Msg("File already exists; appending to it")
	}

	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Err(err).Str("file_path", filePath).Msg("Failed to open file")
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return &FileSink{
		sinkBase: sinkBase{logger: logger.GetLogger("file-sink").With().Str("file_path", filePath).Logger()},
		filePath: filePath,
		file:     file,
		w:        bufio.NewWriter(file),
	}, nil
}

func (f *FileSink) OnNext(v int) {
	if f.failed() {
		return
	}
	if _, err := f.w.WriteString(strconv.Itoa(v) + "\n"); err != nil {
		f.fail(fmt.Errorf("failed to write to file: %w", err))
	}
}

func (f *FileSink) OnError(err error) {
	f.logger.Err(err).Msg("upstream failed")
	f.flush()
}

func (f *FileSink) OnComplete() {
	f.flush()
	f.logger.Debug().Msg("stream written to file")
}

func (f *FileSink) flush() {
	if err := f.w.Flush(); err != nil {
		f.fail(fmt.Errorf("failed to flush file: %w", err))
	}
}

func (f *FileSink) Path() string { return f.filePath }

// Close flushes pending output and closes the file.
func (f *FileSink) Close() error {
	f.logger.Info().Msg("Closing file sink")
	flushErr := f.w.Flush()
	if err := f.file.Close(); err != nil {
		f.logger.Err(err).Msg("Failed to close file")
		return err
	}
	return flushErr
}
