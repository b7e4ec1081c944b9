package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/jwalitptl/legal-services-api/internal/app"
	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/service/spreadsheet"
)

var typeFlag = &cli.StringFlag{
	Name:     "type",
	Aliases:  []string{"t"},
	Usage:    "Record type: category or service",
	Required: true,
}

var importCommand = &cli.Command{
	Name:  "import",
	Usage: "Import categories or services from an xlsx workbook",
	Flags: []cli.Flag{
		typeFlag,
		&cli.PathFlag{Name: "file", Aliases: []string{"f"}, Usage: "Workbook to import", Required: true},
		&cli.Int64Flag{Name: "user", Aliases: []string{"u"}, Usage: "Id of the user the import runs as", Required: true},
	},
	Action: func(c *cli.Context) error {
		entity, err := spreadsheet.ParseEntity(c.String("type"))
		if err != nil {
			return err
		}

		e, err := loadEnv(c)
		if err != nil {
			return err
		}
		defer e.close()

		actor, err := e.actor(c.Context, c.Int64("user"))
		if err != nil {
			return err
		}

		f, err := os.Open(c.Path("file"))
		if err != nil {
			return fmt.Errorf("failed to open workbook: %w", err)
		}
		defer f.Close()

		result, importErr := e.services.Spreadsheet.Import(c.Context, actor, entity, f)
		if result != nil {
			if err := printJSON(result); err != nil {
				return err
			}
		}
		return importErr
	},
}

var exportCommand = &cli.Command{
	Name:  "export",
	Usage: "Export categories or services to an xlsx workbook",
	Flags: []cli.Flag{
		typeFlag,
		&cli.PathFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file or directory (defaults to the generated name)"},
		&cli.Int64SliceFlag{Name: "ids", Usage: "Only export these ids"},
	},
	Action: func(c *cli.Context) error {
		entity, err := spreadsheet.ParseEntity(c.String("type"))
		if err != nil {
			return err
		}

		e, err := loadEnv(c)
		if err != nil {
			return err
		}
		defer e.close()

		wb, err := e.services.Spreadsheet.Export(c.Context, entity, c.Int64Slice("ids"))
		if err != nil {
			return err
		}
		return writeWorkbook(wb, c.Path("out"))
	},
}

var templateCommand = &cli.Command{
	Name:  "template",
	Usage: "Write a blank import template",
	Flags: []cli.Flag{
		typeFlag,
		&cli.PathFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file or directory (defaults to the generated name)"},
	},
	Action: func(c *cli.Context) error {
		entity, err := spreadsheet.ParseEntity(c.String("type"))
		if err != nil {
			return err
		}

		codec := spreadsheet.NewCodec(nil, nil, nil, nil)
		wb, err := codec.Template(entity)
		if err != nil {
			return err
		}
		return writeWorkbook(wb, c.Path("out"))
	},
}

var userCommand = &cli.Command{
	Name:  "user",
	Usage: "Manage catalog users",
	Subcommands: []*cli.Command{
		{
			Name:  "create",
			Usage: "Create a user",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "username", Required: true},
				&cli.StringFlag{Name: "email"},
				&cli.BoolFlag{Name: "staff", Usage: "Grant staff access"},
			},
			Action: func(c *cli.Context) error {
				e, err := loadEnv(c)
				if err != nil {
					return err
				}
				defer e.close()

				user := &model.User{
					Username: c.String("username"),
					Email:    c.String("email"),
					IsStaff:  c.Bool("staff"),
				}
				if err := e.store.Users.Create(c.Context, user); err != nil {
					return fmt.Errorf("failed to create user: %w", err)
				}
				log.Info().Int64("user_id", user.ID).Str("username", user.Username).Bool("staff", user.IsStaff).Msg("user created")
				return printJSON(user)
			},
		},
	},
}

var tokenCommand = &cli.Command{
	Name:  "token",
	Usage: "Issue an access token for a user",
	Flags: []cli.Flag{
		&cli.Int64Flag{Name: "user", Aliases: []string{"u"}, Required: true},
	},
	Action: func(c *cli.Context) error {
		e, err := loadEnv(c)
		if err != nil {
			return err
		}
		defer e.close()

		actor, err := e.actor(c.Context, c.Int64("user"))
		if err != nil {
			return err
		}
		token, err := app.NewTokenManager(e.cfg.JWT).GenerateAccessToken(actor)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

// writeWorkbook saves wb to out. An empty out or a directory receives the
// workbook's own file name.
func writeWorkbook(wb *spreadsheet.Workbook, out string) error {
	path := out
	if path == "" {
		path = wb.Filename
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, wb.Filename)
	}

	if err := os.WriteFile(path, wb.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Info().Str("file", path).Int("bytes", len(wb.Data)).Msg("workbook written")
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
