package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"github.com/azhengyongqin/redisurl-hub/internal/config"
	"github.com/azhengyongqin/redisurl-hub/internal/redisclient"
	"github.com/azhengyongqin/redisurl-hub/internal/server/dto"
	"github.com/azhengyongqin/redisurl-hub/redisurl"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

// newApp 构建命令行；输出写入 out
func newApp(out io.Writer) *cli.App {
	formatFlag := &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   formatJSON,
		Usage:   "output format: json or table",
	}

	return &cli.App{
		Name:      "redisurl",
		Usage:     "parse and inspect redis connection urls",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file providing REDIS_URL when no url argument is given",
			},
		},
		Before: func(c *cli.Context) error {
			return loadEnvFile(c.String("env-file"))
		},
		Commands: []*cli.Command{
			{
				Name:      "parse",
				Usage:     "parses urls into connection specs",
				ArgsUsage: "URL...",
				Flags: []cli.Flag{
					formatFlag,
					&cli.BoolFlag{
						Name:  "show-password",
						Usage: "print passwords instead of xxxxx",
					},
				},
				Action: func(c *cli.Context) error {
					urls, err := urlArgs(c)
					if err != nil {
						return err
					}
					items, failed := parseAll(urls, c.Bool("show-password"))
					if err := printItems(c.App.Writer, c.String("format"), items); err != nil {
						return err
					}
					return failures(failed, len(urls))
				},
			},
			{
				Name:      "redact",
				Usage:     "prints urls with the password replaced",
				ArgsUsage: "URL...",
				Action: func(c *cli.Context) error {
					urls, err := urlArgs(c)
					if err != nil {
						return err
					}
					for _, raw := range urls {
						fmt.Fprintln(c.App.Writer, redisurl.Redact(raw))
					}
					return nil
				},
			},
			{
				Name:      "options",
				Usage:     "prints the go-redis client options a url resolves to",
				ArgsUsage: "URL...",
				Flags:     []cli.Flag{formatFlag},
				Action: func(c *cli.Context) error {
					urls, err := urlArgs(c)
					if err != nil {
						return err
					}
					failed := 0
					for _, raw := range urls {
						summary, err := optionsFor(raw)
						if err != nil {
							failed++
							fmt.Fprintf(c.App.ErrWriter, "%s: %v\n", redisurl.Redact(raw), err)
							continue
						}
						if err := printOptions(c.App.Writer, c.String("format"), summary); err != nil {
							return err
						}
					}
					return failures(failed, len(urls))
				},
			},
		},
	}
}

// loadEnvFile 加载 dotenv 文件，文件不存在时忽略；已有的环境变量不会被覆盖
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// urlArgs 返回命令参数；没有参数时回退到 REDIS_URL
func urlArgs(c *cli.Context) ([]string, error) {
	if c.NArg() > 0 {
		return c.Args().Slice(), nil
	}
	if raw := config.NormalizeRedisURL(os.Getenv("REDIS_URL")); raw != "" {
		return []string{raw}, nil
	}
	return nil, errors.New("no url given and REDIS_URL is not set")
}

func parseAll(urls []string, showPassword bool) ([]dto.BatchParseItem, int) {
	items := make([]dto.BatchParseItem, 0, len(urls))
	failed := 0
	for i, raw := range urls {
		item := dto.BatchParseItem{Index: i, Input: raw}
		if !showPassword {
			item.Input = redisurl.Redact(raw)
		}

		spec, err := redisurl.Parse(raw)
		switch {
		case err != nil:
			failed++
			item.Error = err.Error()
			item.Reason = string(redisurl.ReasonOf(err))
		case showPassword:
			item.Item = spec
		default:
			item.Item = spec.Redacted()
		}
		items = append(items, item)
	}
	return items, failed
}

func optionsFor(raw string) (redisclient.OptionsSummary, error) {
	spec, err := redisurl.Parse(raw)
	if err != nil {
		return redisclient.OptionsSummary{}, err
	}
	opts, err := redisclient.Options(spec)
	if err != nil {
		return redisclient.OptionsSummary{}, err
	}
	return redisclient.Summarize(opts), nil
}

func failures(failed, total int) error {
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d urls invalid", failed, total)
}

func printItems(w io.Writer, format string, items []dto.BatchParseItem) error {
	switch format {
	case formatJSON:
		return writeJSON(w, items)
	case formatTable:
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Input", "Scheme", "Address", "DB", "TLS", "Username", "Error"})
		for _, item := range items {
			if item.Item == nil {
				table.Append([]string{item.Input, "", "", "", "", "", item.Error})
				continue
			}
			spec := item.Item
			tls := ""
			if spec.UseTLS {
				tls = "X"
			}
			table.Append([]string{
				item.Input,
				string(spec.Scheme),
				spec.Addr(),
				strconv.Itoa(spec.DB),
				tls,
				deref(spec.Username),
				"",
			})
		}
		table.Render()
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func printOptions(w io.Writer, format string, summary redisclient.OptionsSummary) error {
	switch format {
	case formatJSON:
		return writeJSON(w, summary)
	case formatTable:
		// 按 JSON 字段输出键值对，零值字段已被 omitempty 省略
		data, err := json.Marshal(summary)
		if err != nil {
			return fmt.Errorf("marshal options: %w", err)
		}
		var fields map[string]interface{}
		if err := json.Unmarshal(data, &fields); err != nil {
			return fmt.Errorf("unmarshal options: %w", err)
		}

		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Option", "Value"})
		for _, key := range optionKeys {
			if v, ok := fields[key]; ok {
				table.Append([]string{key, fmt.Sprint(v)})
			}
		}
		table.Render()
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// optionKeys OptionsSummary 的 JSON 字段顺序
var optionKeys = []string{
	"network", "addr", "db", "username", "has_password", "tls", "server_name", "skip_verify",
	"client_name", "protocol", "max_retries", "pool_fifo", "pool_size", "min_idle_conns",
	"max_idle_conns", "max_active_conns", "dial_timeout", "read_timeout", "write_timeout",
	"pool_timeout", "conn_max_idle_time", "conn_max_lifetime",
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
