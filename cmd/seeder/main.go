package main

import (
	"flag"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/court-ledger/internal/club"
	"github.com/mauv0809/court-ledger/internal/database"
	"github.com/mauv0809/court-ledger/internal/session"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	dbName, ok := os.LookupEnv("DB_NAME")
	if !ok {
		log.Fatalf("Error: Required environment variable DB_NAME is not set.")
	}
	config["DB_NAME"] = dbName
	for _, key := range []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"} {
		config[key] = os.Getenv(key)
	}
	return config
}

func main() {
	numPlayers := flag.Int("players", 12, "Number of registered players to create")
	numSessions := flag.Int("sessions", 8, "Number of sessions to create over the last 60 days")
	seed := flag.Uint64("seed", 0, "Seed for the fake data; 0 picks a random one")
	flag.Parse()

	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	faker := gofakeit.New(*seed)
	players := club.New(db)
	sessions := session.New(db)

	registered := make([]*club.Player, 0, *numPlayers)
	for range *numPlayers {
		p, err := players.CreatePlayer(faker.FirstName() + " " + faker.LastName())
		if err != nil {
			log.Fatalf("Failed to create player: %s", err)
		}
		registered = append(registered, p)
	}
	log.Info("Created players", "count", len(registered))

	startTime := time.Now()
	end := time.Now()
	start := end.AddDate(0, 0, -60)
	var participants int
	for range *numSessions {
		date := faker.DateRange(start, end).Format(session.DateLayout)
		fee := float64(faker.IntRange(0, 10) * 5000)
		sess, err := sessions.CreateSession(date, fee, 10)
		if err != nil {
			log.Fatalf("Failed to create session: %s", err)
		}

		// Every player joins with probability one half, plus up to three guests.
		var joined []*session.Participant
		for _, p := range registered {
			if !faker.Bool() {
				continue
			}
			sp, err := sessions.AddParticipant(sess.ID, session.NewParticipant{PlayerID: p.ID, Name: p.Name})
			if err != nil {
				log.Fatalf("Failed to add player to session: %s", err)
			}
			joined = append(joined, sp)
		}
		for range faker.IntRange(0, 3) {
			sp, err := sessions.AddParticipant(sess.ID, session.NewParticipant{Name: faker.FirstName()})
			if err != nil {
				log.Fatalf("Failed to add guest to session: %s", err)
			}
			joined = append(joined, sp)
		}

		for _, sp := range joined {
			wins, losses := faker.IntRange(0, 8), faker.IntRange(0, 8)
			paid := faker.Bool()
			if _, err := sessions.UpdateParticipant(sp.ID, session.ParticipantUpdate{Wins: &wins, Losses: &losses, Paid: &paid}); err != nil {
				log.Fatalf("Failed to score participant: %s", err)
			}
		}
		participants += len(joined)
		log.Info("Seeded session", "date", date, "participants", len(joined))
	}

	duration := time.Since(startTime)
	log.Info("Successfully seeded sessions.", "sessions", *numSessions, "participants", participants, "duration", duration)
}
