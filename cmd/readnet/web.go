package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/readnet/readnet/gin"

	authhttp "github.com/readnet/readnet/auth/http"
	readshttp "github.com/readnet/readnet/reads/http"
)

func init() {
	RootCmd.AddCommand(&WebCommand)
}

var WebCommand = cobra.Command{
	Use:   "web",
	Short: "Start the web server",
	Long:  "Start the web server",
	Run: func(cmd *cobra.Command, args []string) {
		srv := gin.New(env)

		key := []byte(signingKey.Key)
		authhttp.RegisterUserEndpoints(srv, userService, authenticator, key)
		readshttp.RegisterPaperEndpoints(srv, paperService, authenticator, key)
		readshttp.RegisterConfigEndpoints(srv, configService, authenticator, key)

		addr := cfg.Web.Addr
		if addr == "" {
			addr = ":1705"
		}

		logger.Print("server started, listening on ", addr)
		logger.Fatal(http.ListenAndServe(addr, srv))
	},
}
