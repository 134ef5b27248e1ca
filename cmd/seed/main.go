package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pageza/recipeshare/backend/config"
	"github.com/pageza/recipeshare/backend/internal/database"
	"github.com/pageza/recipeshare/backend/internal/logger"
	"github.com/pageza/recipeshare/backend/internal/models"
	"github.com/pageza/recipeshare/backend/internal/repository"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/storage"
	"github.com/pageza/recipeshare/backend/internal/types"
)

const defaultPassword = "testpassword123"

type seedUser struct {
	name      string
	email     string
	isPureVeg bool
}

type seedRecipe struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	IsPureVeg    bool     `json:"isPureVeg"`
}

var users = []seedUser{
	{name: "John Doe", email: "john.doe@example.com"},
	{name: "Jane Smith", email: "jane.smith@example.com", isPureVeg: true},
	{name: "Bob Wilson", email: "bob.wilson@example.com"},
}

const recipesJSON = `[
	{"title": "grandma's apple pie", "description": "Flaky crust with cinnamon apples.", "ingredients": ["apples", "flour", "butter", "sugar", "cinnamon"], "instructions": "Make the dough, fill with apples and bake for 45 minutes.", "isPureVeg": true},
	{"title": "chicken tikka masala", "description": "Charred chicken in a creamy tomato sauce.", "ingredients": ["chicken", "yogurt", "tomatoes", "garam masala", "cream"], "instructions": "Marinate, grill, then simmer in the sauce.", "isPureVeg": false},
	{"title": "paneer butter masala", "description": "Soft paneer cubes in a rich buttery gravy.", "ingredients": ["paneer", "butter", "tomatoes", "cashews", "cream"], "instructions": "Blend the gravy, simmer and fold in the paneer.", "isPureVeg": true},
	{"title": "lemon garlic salmon", "description": "Pan seared salmon with a bright lemon glaze.", "ingredients": ["salmon", "lemon", "garlic", "olive oil"], "instructions": "Sear skin side down, baste with lemon garlic butter.", "isPureVeg": false},
	{"title": "mushroom risotto", "description": "Creamy arborio rice with wild mushrooms.", "ingredients": ["arborio rice", "mushrooms", "stock", "parmesan", "onion"], "instructions": "Toast the rice, add stock slowly, finish with parmesan.", "isPureVeg": true},
	{"title": "black bean tacos", "description": "Smoky beans with lime slaw in warm tortillas.", "ingredients": ["black beans", "tortillas", "cabbage", "lime", "chipotle"], "instructions": "Warm the beans with chipotle and assemble with slaw.", "isPureVeg": true}
]`

func main() {
	subscribers := flag.Bool("subscribers", true, "Also subscribe the seeded users to the weekly digest")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Init("info", config.PrettyLogs())
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, config.PrettyLogs())
	ctx := context.Background()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close(db)
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	files, err := storage.NewFromConfig(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize file storage")
	}

	var recipes []seedRecipe
	if err := json.Unmarshal([]byte(recipesJSON), &recipes); err != nil {
		log.Fatal().Err(err).Msg("Failed to parse seed recipes")
	}
	thumb, err := placeholderThumbnail()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to render placeholder thumbnail")
	}

	store := repository.New(db)
	auth := service.NewAuthService(cfg.JWTSecret)
	userSvc := service.NewUserService(store, files, auth)
	recipeSvc := service.NewRecipeService(store, files)
	subSvc := service.NewSubscriberService(store)

	created := 0
	for i, u := range users {
		user, err := ensureUser(ctx, store, userSvc, u)
		if err != nil {
			log.Error().Err(err).Str("email", u.email).Msg("Failed to seed user")
			continue
		}

		if *subscribers {
			if _, err := subSvc.Subscribe(ctx, u.email); err != nil && service.StatusOf(err) >= 500 {
				log.Error().Err(err).Str("email", u.email).Msg("Failed to subscribe user")
			}
		}

		n, err := store.Recipes.CountByOwner(ctx, user.ID)
		if err != nil {
			log.Error().Err(err).Str("email", u.email).Msg("Failed to count recipes")
			continue
		}
		if n > 0 {
			log.Info().Str("email", u.email).Msg("User already has recipes, skipping")
			continue
		}

		// Each user gets every recipe whose index falls on their slot
		for j := i; j < len(recipes); j += len(users) {
			r := recipes[j]
			input := types.RecipeInput{
				Title:        &r.Title,
				Description:  &r.Description,
				Ingredients:  r.Ingredients,
				Instructions: &r.Instructions,
				IsPureVeg:    r.IsPureVeg,
			}
			upload := &types.Upload{
				Name:    strings.ReplaceAll(r.Title, " ", "-") + ".png",
				Size:    int64(len(thumb)),
				Content: bytes.NewReader(thumb),
			}
			if _, err := recipeSvc.Create(ctx, user.ID, input, upload); err != nil {
				log.Error().Err(err).Str("title", r.Title).Msg("Failed to seed recipe")
				continue
			}
			created++
		}
	}

	log.Info().
		Int("users", len(users)).
		Int("recipes", created).
		Str("password", defaultPassword).
		Msg("Seeding finished")
}

func ensureUser(ctx context.Context, store *repository.Store, users *service.UserService, u seedUser) (*models.User, error) {
	existing, err := store.Users.GetByEmail(ctx, u.email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user, err := users.Register(ctx, types.RegisterRequest{
		Name:      u.name,
		Email:     u.email,
		Password:  defaultPassword,
		Password2: defaultPassword,
	})
	if err != nil {
		return nil, err
	}
	if u.isPureVeg {
		user.IsPureVeg = true
		if err := store.Users.UpdateProfile(ctx, user); err != nil {
			return nil, err
		}
	}
	log.Info().Str("email", u.email).Msg("Created user")
	return user, nil
}

// placeholderThumbnail renders a small solid PNG used for every seeded recipe
func placeholderThumbnail() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	fill := color.RGBA{R: 0xf4, G: 0xa2, B: 0x61, A: 0xff}
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
