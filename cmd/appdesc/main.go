package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/frantjc/appdesc"
	"github.com/frantjc/appdesc/command"
	xos "github.com/frantjc/x/os"

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
	_ "gocloud.dev/pubsub/mempubsub"
)

func main() {
	var (
		ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err       error
	)

	if err = command.SetCommon(command.NewAppdesc(), appdesc.SemVer()).ExecuteContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
	}

	stop()
	xos.ExitFromError(err)
}
