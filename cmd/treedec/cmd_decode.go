package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teatak/treedec/decoder"
	"github.com/teatak/treedec/grammar"
	"github.com/teatak/treedec/kbest"
	"github.com/teatak/treedec/tree"
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Decode bracketed trees from stdin into n-best lists on stdout",
	RunE:  runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	cfg, tables, err := loadSetup()
	if err != nil {
		return err
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		result, err := decodeSentence(cfg, tables, strconv.Itoa(lineNo), line)
		if err != nil {
			return fmt.Errorf("sentence %d: %w", lineNo, err)
		}
		if _, err := out.WriteString(result); err != nil {
			return err
		}
		lineNo++
	}
	return scanner.Err()
}

// decodeSentence runs one full decode and renders its n-best list.
func decodeSentence(cfg decoder.Config, tables []*grammar.Table, id, line string) (string, error) {
	src, err := tree.Parse(line)
	if err != nil {
		return "", err
	}
	m := decoder.NewManager(cfg, nil, tables, src)
	if err := m.Decode(); err != nil {
		return "", err
	}
	list := kbest.ExtractKBest(m, cfg.NBestSize, cfg.DistinctNBest)
	var sb strings.Builder
	if err := kbest.WriteNBest(&sb, id, list, cfg); err != nil {
		return "", err
	}
	return sb.String(), nil
}
