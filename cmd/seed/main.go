package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"inkwell/internal/config"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/services"
	"inkwell/internal/httputil"
	"inkwell/internal/repository/postgres"
	"inkwell/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML fixture shape.
type seedFile struct {
	Posts []seedPost `yaml:"posts"`
	News  []seedNews `yaml:"news"`
}

type seedPost struct {
	Title        string   `yaml:"title"`
	Summary      string   `yaml:"summary"`
	BodyMarkdown string   `yaml:"body_markdown"`
	Slug         string   `yaml:"slug"`
	Status       string   `yaml:"status"`
	PublishedAt  string   `yaml:"published_at"`
	HeroImageURL string   `yaml:"hero_image_url"`
	HeroImageAlt string   `yaml:"hero_image_alt"`
	Featured     bool     `yaml:"featured"`
	AuthorName   string   `yaml:"author_name"`
	AuthorEmail  string   `yaml:"author_email"`
	Tags         []string `yaml:"tags"`
}

type seedNews struct {
	Category     string `yaml:"category"`
	Title        string `yaml:"title"`
	BodyMarkdown string `yaml:"body_markdown"`
	Status       string `yaml:"status"`
	PublishedAt  string `yaml:"published_at"`
}

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed content")
	fixturePath := flag.String("file", "seed.yaml", "YAML fixture file to seed from")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Println("Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	fixture, err := loadFixture(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to load fixture %s: %v", *fixturePath, err)
	}

	repoConfig := &postgres.RepositoryConfig{Pool: pool, Logger: logger}
	postService := service.NewPostService(postgres.NewPostRepository(repoConfig), logger)
	newsService := service.NewNewsService(postgres.NewNewsRepository(repoConfig), logger)

	log.Printf("Seeding %d posts and %d news items...", len(fixture.Posts), len(fixture.News))

	for _, p := range fixture.Posts {
		post, err := postService.CreatePost(ctx, buildPostRequest(p))
		if err != nil {
			log.Printf("Failed to create post '%s': %v", p.Title, err)
			continue
		}
		log.Printf("Created post: %s (slug: %s)", post.Title, post.Slug)
	}

	for _, n := range fixture.News {
		item, err := newsService.CreateNews(ctx, buildNewsRequest(n))
		if err != nil {
			log.Printf("Failed to create news item '%s': %v", n.Title, err)
			continue
		}
		log.Printf("Created news item: %s (category: %s)", item.Title, item.Category)
	}

	log.Println("Seeding complete")
}

func loadFixture(path string) (*seedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fixture seedFile
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, err
	}
	return &fixture, nil
}

func stringValue(v string) httputil.OptionalString {
	if v == "" {
		return httputil.OptionalString{}
	}
	return httputil.OptionalString{Present: true, IsString: true, Value: v}
}

func buildPostRequest(p seedPost) *services.CreatePostRequest {
	req := &services.CreatePostRequest{
		Title:        stringValue(p.Title),
		Summary:      stringValue(p.Summary),
		BodyMarkdown: stringValue(p.BodyMarkdown),
		Slug:         stringValue(p.Slug),
		Status:       stringValue(p.Status),
		PublishedAt:  stringValue(p.PublishedAt),
		HeroImageURL: stringValue(p.HeroImageURL),
		HeroImageAlt: stringValue(p.HeroImageAlt),
		AuthorName:   stringValue(p.AuthorName),
		AuthorEmail:  stringValue(p.AuthorEmail),
		Tags:         models.ReplaceList(p.Tags),
	}
	if p.Featured {
		req.Featured = httputil.OptionalBool{Present: true, IsBool: true, Value: true}
	}
	return req
}

func buildNewsRequest(n seedNews) *services.CreateNewsRequest {
	return &services.CreateNewsRequest{
		Category:     stringValue(n.Category),
		Title:        stringValue(n.Title),
		BodyMarkdown: stringValue(n.BodyMarkdown),
		Status:       stringValue(n.Status),
		PublishedAt:  stringValue(n.PublishedAt),
	}
}

// dropAllTables removes every table this service owns.
func dropAllTables(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		"DROP TABLE IF EXISTS post_tags",
		"DROP TABLE IF EXISTS tags",
		"DROP TABLE IF EXISTS posts",
		"DROP TABLE IF EXISTS news_items",
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS posts (
			id UUID PRIMARY KEY,
			slug TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			summary TEXT NOT NULL,
			body_markdown TEXT NOT NULL,
			status TEXT NOT NULL,
			published_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			reading_time_minutes INTEGER NOT NULL DEFAULT 1,
			hero_image_url TEXT,
			hero_image_alt TEXT,
			featured BOOLEAN NOT NULL DEFAULT FALSE,
			author_name TEXT NOT NULL,
			author_email TEXT NOT NULL,
			seo_title TEXT,
			seo_description TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS tags (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS post_tags (
			post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			tag_id UUID NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			PRIMARY KEY (post_id, tag_id)
		)`,
		`CREATE TABLE IF NOT EXISTS news_items (
			id UUID PRIMARY KEY,
			category TEXT NOT NULL,
			title TEXT NOT NULL,
			body_markdown TEXT NOT NULL,
			status TEXT NOT NULL,
			published_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_updated_at ON posts (updated_at DESC, id DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_news_items_updated_at ON news_items (updated_at DESC, id DESC)`,
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
