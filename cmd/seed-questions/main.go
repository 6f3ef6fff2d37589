package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/yaml.v3"

	"github.com/stemsi/questbank/internal/config"
	"github.com/stemsi/questbank/internal/database"
	"github.com/stemsi/questbank/internal/logger"
	"github.com/stemsi/questbank/internal/model"
	"github.com/stemsi/questbank/internal/repository"
	"github.com/stemsi/questbank/internal/service"
	"github.com/stemsi/questbank/internal/sheet"
	"github.com/stemsi/questbank/internal/validator"
)

// seedFile is the YAML layout accepted by -file.
type seedFile struct {
	Questions []seedQuestion `yaml:"questions"`
}

type seedQuestion struct {
	Source     string   `yaml:"source"`
	Year       string   `yaml:"year"`
	Subject    string   `yaml:"subject"`
	Topic      string   `yaml:"topic"`
	Difficulty string   `yaml:"difficulty"`
	Passage    string   `yaml:"passage"`
	Prompt     string   `yaml:"prompt"`
	Choices    []string `yaml:"choices"`
	AnswerKey  string   `yaml:"answer_key"`
}

func (q seedQuestion) request() model.CreateQuestionRequest {
	return model.CreateQuestionRequest{
		Source:     q.Source,
		Year:       q.Year,
		Subject:    q.Subject,
		Topic:      q.Topic,
		Difficulty: q.Difficulty,
		Passage:    q.Passage,
		Prompt:     q.Prompt,
		Choices:    q.Choices,
		AnswerKey:  q.AnswerKey,
	}
}

var sampleChoices = []string{"Alternativa 1", "Alternativa 2", "Alternativa 3", "Alternativa 4", "Alternativa 5"}

// defaultSeed is the starter bank used when no file is given.
var defaultSeed = []seedQuestion{
	{
		Year: "2020", Subject: "Matemática", Topic: "Razão", Difficulty: "Fácil",
		Passage: "Texto exemplo da questão sobre razão.",
		Prompt:  "Qual é a razão entre A e B?",
		Choices: sampleChoices,
	},
	{
		Year: "2021", Subject: "Matemática", Topic: "Regra de Três", Difficulty: "Médio",
		Passage: "Texto exemplo da questão sobre regra de três.",
		Prompt:  "Como utilizar a regra de três neste caso?",
		Choices: sampleChoices,
	},
	{
		Year: "2026", Subject: "Matemática", Topic: "Escala", Difficulty: "Difícil",
		Passage: "Texto exemplo da questão sobre escala.",
		Prompt:  "Qual é a escala correta a ser usada?",
		Choices: sampleChoices,
	},
}

func main() {
	var (
		file   string
		dryRun bool
	)
	flag.StringVar(&file, "file", "", "YAML file with a top-level questions list (default: built-in samples)")
	flag.BoolVar(&dryRun, "dry-run", false, "Validate the seed without writing to the store")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	seed := defaultSeed
	if file != "" {
		loaded, err := loadSeed(file)
		if err != nil {
			log.Fatal().Err(err).Str("file", file).Msg("Failed to read seed file")
		}
		seed = loaded
	}

	invalid := 0
	for i, q := range seed {
		if err := binding.Validator.ValidateStruct(q.request()); err != nil {
			invalid++
			log.Error().Int("index", i).Interface("fields", validator.TranslateErrors(err)).Msg("Invalid seed question")
		}
	}
	if invalid > 0 {
		log.Fatal().Int("invalid", invalid).Msg("Seed rejected")
	}
	if dryRun {
		fmt.Printf("Seed OK: %d questions would be added.\n", len(seed))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var pool *pgxpool.Pool
	if cfg.StoreBackend == config.StoreBackendPostgres {
		p, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to configure PostgreSQL")
		}
		pool = p
		defer pool.Close()
	}

	source, err := sheet.Open(cfg, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure question store")
	}
	questions := service.NewQuestionService(repository.NewQuestionRepository(source, log), cfg.StoreTimeout, log)

	fmt.Printf("=== Seeding %d questions ===\n", len(seed))
	added := 0
	for i, q := range seed {
		stored, err := questions.Register(ctx, q.request())
		if err != nil {
			fmt.Printf("Error adding question #%d (%s): %v\n", i+1, q.Topic, err)
			continue
		}
		added++
		fmt.Printf("Added question %d: %s\n", stored.ID, stored.Prompt)
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d questions.\n", added, len(seed))
	if added < len(seed) {
		os.Exit(1)
	}
}

func loadSeed(path string) ([]seedQuestion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(f.Questions) == 0 {
		return nil, fmt.Errorf("%s has no questions", path)
	}
	return f.Questions, nil
}
