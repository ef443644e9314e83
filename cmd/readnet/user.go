package main

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/readnet/readnet"
)

func init() {
	UserCommand.AddCommand(&UserAllCommand)
	UserCommand.AddCommand(&UserCreateCommand)
	UserCommand.AddCommand(&UserAdminCommand)
	UserCommand.AddCommand(&TokenCommand)
	RootCmd.AddCommand(&UserCommand)
}

var UserCommand = cobra.Command{
	Use:   "user",
	Short: "Show a user",
	Long:  "Show a user",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			logger.Fatal("user wants 1 argument: the id of the user")
		}

		id, err := strconv.Atoi(args[0])
		if err != nil {
			logger.Fatal("error converting user id: ", err)
		}

		user, err := userService.Get(id)
		if err != nil {
			logger.Fatal("error retrieving user: ", err)
		}

		data, err := formatUser(user)
		if err != nil {
			logger.Fatal(err)
		}
		logger.Print(data)
	},
}

var UserAllCommand = cobra.Command{
	Use:   "all",
	Short: "List all the users",
	Long:  "List all the users",
	Run: func(cmd *cobra.Command, args []string) {
		users, err := userService.List()
		if err != nil {
			logger.Fatal("error listing users: ", err)
		}

		for _, user := range users {
			data, err := formatUser(user)
			if err != nil {
				logger.Fatal(err)
			}
			logger.Print(data)
		}
	},
}

var UserCreateCommand = cobra.Command{
	Use:   "create",
	Short: "Create a user",
	Long:  "Create a user",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			logger.Fatal("user create wants 2 arguments: the name and the password")
		}

		token, err := userService.SignUp(args[0], args[1])
		if err != nil {
			logger.Fatal("error creating user: ", err)
		}

		logger.Print(token)
	},
}

var UserAdminCommand = cobra.Command{
	Use:   "admin",
	Short: "Grant or revoke admin privilege",
	Long:  "Grant or revoke admin privilege",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			logger.Fatal("user admin wants 2 arguments: the id of the user and true or false")
		}

		id, err := strconv.Atoi(args[0])
		if err != nil {
			logger.Fatal("error converting user id: ", err)
		}

		admin, err := strconv.ParseBool(args[1])
		if err != nil {
			logger.Fatal("error converting admin flag: ", err)
		}

		user, err := userService.SetAdmin(id, admin)
		if err != nil {
			logger.Fatal("error updating user: ", err)
		}

		data, err := formatUser(user)
		if err != nil {
			logger.Fatal(err)
		}
		logger.Print(data)
	},
}

var TokenCommand = cobra.Command{
	Use:   "token",
	Short: "Issue a token for a user",
	Long:  "Issue a token for a user",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			logger.Fatal("user token wants 1 argument: the id of the user")
		}

		id, err := strconv.Atoi(args[0])
		if err != nil {
			logger.Fatal("error converting user id: ", err)
		}

		token, err := userService.Token(id)
		if err != nil {
			logger.Fatal(err)
		}

		logger.Print(token)
	},
}

func formatUser(user readnet.User) (string, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
