/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	adapterrepo "github.com/eslsoft/vocabbook/internal/adapter/repository"
	"github.com/eslsoft/vocabbook/internal/entity"
	"github.com/eslsoft/vocabbook/internal/infrastructure/config"
	"github.com/eslsoft/vocabbook/internal/infrastructure/database"
	"github.com/eslsoft/vocabbook/internal/usecase"
	"github.com/eslsoft/vocabbook/pkg/wordfreq"
)

const dbInitSeedKey = "db.seed"

// dbInitCmd creates the schema and optionally seeds it from a word-list file
// (one word per line, # comments allowed).
var dbInitCmd = &cobra.Command{
	Use:   "db-init",
	Short: "Initialize the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		db, cleanup, err := database.NewDB(cfg)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer cleanup()

		driver, err := cfg.DatabaseDriver()
		if err != nil {
			return err
		}
		if err := database.Migrate(ctx, db, driver); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		cmd.Println("database schema ready")

		seedPath := viper.GetString(dbInitSeedKey)
		if seedPath == "" {
			return nil
		}

		scorer := wordfreq.New()
		if cfg.WordFreq.Path != "" {
			if err := scorer.LoadFile(cfg.WordFreq.Language, cfg.WordFreq.Path); err != nil {
				return fmt.Errorf("load word list: %w", err)
			}
		}
		repo := adapterrepo.NewVocabRepository(db, driver)
		uc := usecase.NewVocabUsecase(repo, scorer, cfg.WordFreq.Language, int32(cfg.Pagination.PageSize))

		file, err := os.Open(seedPath)
		if err != nil {
			return fmt.Errorf("open seed file: %w", err)
		}
		defer file.Close()

		var created, skipped int
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			word := strings.TrimSpace(scanner.Text())
			if word == "" || strings.HasPrefix(word, "#") {
				continue
			}
			_, err := uc.Create(ctx, &entity.Vocab{Word: word, Source: "seed"})
			switch {
			case err == nil:
				created++
			case errors.Is(err, entity.ErrDuplicateWord):
				cmd.PrintErrf("skipping duplicate word %q\n", word)
				skipped++
			default:
				return fmt.Errorf("seed word %q: %w", word, err)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read seed file: %w", err)
		}

		cmd.Printf("seeded %d entries (%d duplicates skipped)\n", created, skipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbInitCmd)

	dbInitCmd.Flags().String("seed", "", "seed word-list file, one word per line")

	bindFlagToViper(dbInitSeedKey, dbInitCmd.Flags().Lookup("seed"))
}
