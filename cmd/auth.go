package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/backlog/internal/server"
	"github.com/desertthunder/backlog/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthHashPassword prints a bcrypt hash suitable for auth.password_hash or GAME_BACKLOG_PASS_HASH.
//
// The password is read from the first line of stdin when no argument is given.
func (r *Runner) AuthHashPassword(ctx context.Context, cmd *cli.Command) error {
	password := cmd.StringArg("password")
	if password == "" {
		line, err := bufio.NewReader(r.input).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("%w: provide a password argument or pipe one on stdin", shared.ErrMissingArgument)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	hash, err := server.HashPassword(password)
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", hash)
}
