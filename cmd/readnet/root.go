package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/readnet/readnet"
	"github.com/readnet/readnet/bleve"
	"github.com/readnet/readnet/bolt"
	"github.com/readnet/readnet/jwt"
	"github.com/readnet/readnet/log"
	"github.com/readnet/readnet/users"

	authservices "github.com/readnet/readnet/auth/services"
	readservices "github.com/readnet/readnet/reads/services"
)

var (
	// flags
	env string

	// logger
	logger log.Logger

	// auth
	signingKey    readnet.SigningKey
	tokenEncoder  *jwt.EncodeDecoder
	authenticator *users.Authenticator

	// drivers
	boltDriver *bolt.Driver

	// indices
	paperIndex *bleve.PaperIndex

	// services
	userService   *authservices.UserService
	paperService  *readservices.PaperService
	configService *readservices.ConfigService

	// configuration
	cfg Configuration
)

type Configuration struct {
	Auth struct {
		Key string `toml:"key"`
	} `toml:"auth"`
	Bolt struct {
		Store string `toml:"store"`
	} `toml:"bolt"`
	Bleve struct {
		Store string `toml:"store"`
	} `toml:"bleve"`
	Web struct {
		Addr string `toml:"addr"`
	} `toml:"web"`
}

func init() {
	RootCmd.PersistentFlags().StringVar(&env, "env", "dev", "environment")
}

var RootCmd = cobra.Command{
	Use:   "readnet",
	Short: "Track who on the team read which paper",
	Long:  "Track who on the team read which paper",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load configuration
		cfgData, err := ioutil.ReadFile(fmt.Sprintf("configuration/config.%s.toml", env))
		if err != nil {
			fmt.Println("error reading configuration:", err)
			return
		}

		err = toml.Unmarshal(cfgData, &cfg)
		if err != nil {
			fmt.Println("error unmarshalling configuration:", err)
			return
		}

		// Create logger
		logger = log.New(env)

		// Create encoder
		keyData, err := ioutil.ReadFile(cfg.Auth.Key)
		if err != nil {
			logger.Fatal("could not open key file: ", err)
		}
		err = json.Unmarshal(keyData, &signingKey)
		if err != nil {
			logger.Fatal("could not read key file: ", err)
		}
		tokenEncoder = jwt.NewEncodeDecoder([]byte(signingKey.Key))

		// Create stores
		boltDriver = &bolt.Driver{}
		if err := boltDriver.Open(cfg.Bolt.Store); err != nil {
			logger.Fatal("could not open bolt store: ", err)
		}

		// Create index
		paperIndex = &bleve.PaperIndex{}
		if err := paperIndex.Open(cfg.Bleve.Store); err != nil {
			logger.Fatal("could not open bleve index: ", err)
		}

		// Create services
		userService = authservices.NewUserService(
			&bolt.UserRepository{Driver: boltDriver},
			tokenEncoder,
		)
		authenticator = users.NewAuthenticator(authservices.NewVerifier(userService))

		paperService = readservices.NewPaperService(
			&bolt.PaperRepository{Driver: boltDriver},
			paperIndex,
			&bolt.ConfigRepository{Driver: boltDriver},
		)
		configService = readservices.NewConfigService(
			&bolt.ConfigRepository{Driver: boltDriver},
		)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if paperIndex != nil {
			paperIndex.Close()
		}
		if boltDriver != nil {
			boltDriver.Close()
		}
	},
}
