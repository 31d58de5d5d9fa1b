package tutor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/avaedu/ava/internal/protocol"
	"github.com/avaedu/ava/internal/transcript"
)

// Attach copies a local file into the documents directory and records the
// upload in the transcript: a user turn naming the file and an assistant
// acknowledgement. Both turns are returned so the caller's live view shows
// exactly what a replay of the transcript would. A storage failure is
// returned as an *UploadError so the caller surfaces it as an assistant turn
// rather than dropping it; the session state is untouched either way.
func (c *Controller) Attach(ctx context.Context, path string) ([]protocol.Turn, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	info, err := os.Stat(path)
	if err != nil {
		return nil, &UploadError{Err: err}
	}

	name := filepath.Base(path)
	sizeMB := float64(info.Size()) / 1024 / 1024

	userText := fmt.Sprintf("Uploaded file: %s (%.2f MB)", name, sizeMB)
	userRec := &transcript.Record{Mode: c.mode, Sender: "user", Content: userText}
	if err := c.log.Append(ctx, userRec); err != nil {
		return nil, &UploadError{Err: err}
	}

	if err := copyToDocuments(path, name); err != nil {
		return nil, &UploadError{Err: err}
	}

	ackText := fmt.Sprintf("File %q has been successfully uploaded to your documents! You can access it anytime from your storage.", name)
	ackRec := &transcript.Record{Mode: c.mode, Sender: "assistant", Content: ackText}
	if err := c.log.Append(ctx, ackRec); err != nil {
		return nil, &UploadError{Err: err}
	}

	return []protocol.Turn{
		protocol.UserTurn(userText),
		{Sender: protocol.SenderAssistant, Kind: protocol.KindPlain, Text: ackText},
	}, nil
}

func copyToDocuments(path, name string) error {
	dir, err := transcript.DocumentsDir()
	if err != nil {
		return err
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return err
	}
	return dst.Close()
}
