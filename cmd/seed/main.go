// Command seed creates a login-capable user and optional demo blogs in the configured store.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/SAITARUN432/backendblog/internal/bootstrap"
	"github.com/SAITARUN432/backendblog/internal/config"
	"github.com/SAITARUN432/backendblog/internal/middleware"
	"github.com/SAITARUN432/backendblog/internal/seed"
	"github.com/SAITARUN432/backendblog/internal/service"
)

func main() {
	email := flag.String("email", "", "Email of the user to create")
	name := flag.String("name", "", "Display name of the user")
	password := flag.String("password", "", "Password of the user")
	numBlogs := flag.Int("blogs", 0, "Number of fake blogs to create")
	maxComments := flag.Int("comments", 3, "Maximum comments per fake blog")
	maxLikes := flag.Int("likes", 5, "Maximum likes per fake blog")
	flag.Parse()

	if *email == "" && *numBlogs == 0 {
		log.Fatal("nothing to do: pass -email/-password and/or -blogs N")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	closer := middleware.ConfigureLogger(cfg.Env, cfg.LogFile)
	defer func() { _ = closer.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to connect to store: %v", err)
	}
	defer func() { _ = rt.Close(context.Background()) }()

	s := seed.NewSeeder(
		service.NewUserService(rt.Users),
		service.NewBlogService(rt.Blogs, nil),
		seed.Options{NumBlogs: *numBlogs, MaxComments: *maxComments, MaxLikes: *maxLikes},
	)

	if *email != "" {
		if _, err := s.SeedUser(ctx, service.RegisterUserInput{Name: *name, Email: *email, Password: *password}); err != nil {
			log.Fatalf("User seeding failed: %v", err)
		}
	}

	if *numBlogs > 0 {
		if _, err := s.SeedBlogs(ctx); err != nil {
			log.Fatalf("Blog seeding failed: %v", err)
		}
	}

	log.Println("Seeding complete")
}
