package monitor

import (
	"encoding/json"
	"os"
)

// FileWriter writes frames and command records to JSONL files.
type FileWriter struct {
	frameFile *os.File
	cmdFile   *os.File
	frameEnc  *json.Encoder
	cmdEnc    *json.Encoder
}

// NewFileWriter creates a FileWriter. commandPath may be empty to skip the
// command log.
func NewFileWriter(framePath, commandPath string) (*FileWriter, error) {
	ff, err := os.Create(framePath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{frameFile: ff, frameEnc: json.NewEncoder(ff)}
	if commandPath != "" {
		cf, err := os.Create(commandPath)
		if err != nil {
			ff.Close()
			return nil, err
		}
		fw.cmdFile = cf
		fw.cmdEnc = json.NewEncoder(cf)
	}
	return fw, nil
}

// WriteFrame logs a single frame.
func (f *FileWriter) WriteFrame(fr Frame) error {
	return f.frameEnc.Encode(fr)
}

// WriteFrames logs multiple frames.
func (f *FileWriter) WriteFrames(frames []Frame) error {
	for _, fr := range frames {
		if err := f.WriteFrame(fr); err != nil {
			return err
		}
	}
	return nil
}

// WriteCommands logs command records, if enabled.
func (f *FileWriter) WriteCommands(rows []CommandRecord) error {
	if f.cmdEnc == nil {
		return nil
	}
	for _, r := range rows {
		if err := f.cmdEnc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.frameFile != nil {
		if e := f.frameFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.cmdFile != nil {
		if e := f.cmdFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
