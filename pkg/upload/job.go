package upload

import (
	"context"
	"fmt"

	"github.com/byxorna/shipwright/pkg/remote"
)

// Job sends one picked file to the upload endpoint
type Job struct {
	Gen  uint64
	File File

	up  remote.Uploader
	ctx context.Context
}

type Result struct {
	Gen      uint64
	Uploaded remote.Uploaded
	Err      error
}

func (j Job) Run(ctx context.Context) Result {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if j.ctx != nil {
		defer context.AfterFunc(j.ctx, cancel)()
	}

	rc, err := j.File.Open()
	if err != nil {
		return Result{Gen: j.Gen, Err: &remote.FetchError{Message: fmt.Sprintf("unable to read %s", j.File.Name), Err: err}}
	}
	defer rc.Close()

	up, err := j.up.Upload(ctx, j.File.Name, rc)
	return Result{Gen: j.Gen, Uploaded: up, Err: err}
}
