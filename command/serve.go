package command

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/frantjc/appdesc"
	"github.com/frantjc/appdesc/internal/descblob"
	"github.com/frantjc/appdesc/internal/deschttp"
	"github.com/spf13/cobra"
	"gocloud.dev/blob"
)

func newServe() *cobra.Command {
	var (
		address    string
		bloburlstr string
		cmd        = &cobra.Command{
			Use:   "serve",
			Short: "Serve the release ledger and Digital Asset Links",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				var (
					ctx = cmd.Context()
					log = appdesc.LoggerFrom(ctx)
				)

				log.Info("opening bucket " + bloburlstr)
				bucket, err := blob.OpenBucket(ctx, bloburlstr)
				if err != nil {
					return err
				}
				defer bucket.Close()

				var (
					srv = &http.Server{
						ReadHeaderTimeout: time.Second * 5,
						BaseContext: func(_ net.Listener) context.Context {
							return ctx
						},
						Handler: deschttp.NewHandler(&descblob.Store{Bucket: bucket}),
					}
					errC = make(chan error, 1)
				)
				defer srv.Close()

				lis, err := net.Listen("tcp", address)
				if err != nil {
					return err
				}
				defer lis.Close()

				go func() {
					log.Info("listening on " + address)
					errC <- srv.Serve(lis)
				}()

				select {
				case <-ctx.Done():
					shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second*10)
					defer cancel()
					if err := srv.Shutdown(shutdownCtx); err != nil {
						return err
					}
					return ctx.Err()
				case err := <-errC:
					return err
				}
			},
		}
	)

	cmd.Flags().StringVar(&address, "addr", ":8080", "Listen address.")
	cmd.Flags().StringVar(&bloburlstr, "blob", "mem://", "Blob URL of the release ledger.")

	return cmd
}
