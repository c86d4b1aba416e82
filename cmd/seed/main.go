package main

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/astroflux/astroflux/backend/internal/models"
)

func main() {
	dbPath := os.Getenv("ASTRO_DB_PATH")
	if dbPath == "" {
		dbPath = "./data/astroflux.db"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.AdminAccount{},
		&models.Session{},
		&models.RateLimitWindow{},
		&models.AuditLogEntry{},
		&models.Horoscope{},
		&models.TarotCard{},
		&models.Insight{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("✓ Database migrated successfully")

	seedDeck(db)
	seedAdmin(db)

	fmt.Println("\n✓ Database seeding completed successfully!")
}

// seedDeck inserts the major arcana so a fresh install has a usable
// tarot endpoint before any admin edits the deck.
func seedDeck(db *gorm.DB) {
	type card struct {
		name, emoji, upright, reversed, keywords string
	}

	majorArcana := []card{
		{"The Fool", "🃏", "New beginnings, spontaneity, a leap of faith", "Recklessness, holding back, fear of the unknown", "beginnings,innocence,adventure"},
		{"The Magician", "🪄", "Willpower, skill, making things happen", "Manipulation, untapped talent, illusions", "willpower,creation,skill"},
		{"The High Priestess", "🌙", "Intuition, inner wisdom, the subconscious", "Secrets withheld, disconnection from intuition", "intuition,mystery,wisdom"},
		{"The Empress", "👑", "Abundance, nurturing, creativity", "Creative block, dependence, smothering", "abundance,nature,nurturing"},
		{"The Emperor", "🏛️", "Structure, authority, stability", "Rigidity, domination, lack of discipline", "authority,structure,leadership"},
		{"The Hierophant", "📜", "Tradition, guidance, shared values", "Rebellion, unconventional paths, dogma", "tradition,belief,conformity"},
		{"The Lovers", "💞", "Union, harmony, a meaningful choice", "Disharmony, imbalance, avoidance of choice", "love,harmony,choices"},
		{"The Chariot", "🏇", "Determination, control, victory through focus", "Lack of direction, aggression, stalling", "willpower,victory,drive"},
		{"Strength", "🦁", "Courage, patience, quiet influence", "Self-doubt, raw emotion, weakness", "courage,patience,compassion"},
		{"The Hermit", "🏮", "Introspection, solitude, inner guidance", "Isolation, loneliness, withdrawal", "solitude,reflection,guidance"},
		{"Wheel of Fortune", "🎡", "Cycles, destiny, a turning point", "Resistance to change, bad luck, disruption", "fate,cycles,turning-point"},
		{"Justice", "⚖️", "Fairness, truth, accountability", "Unfairness, dishonesty, avoiding consequences", "justice,truth,law"},
		{"The Hanged Man", "🙃", "Surrender, new perspective, pause", "Stalling, needless sacrifice, indecision", "surrender,perspective,pause"},
		{"Death", "🦋", "Endings, transformation, release", "Resistance to change, stagnation, clinging", "transformation,endings,renewal"},
		{"Temperance", "🕊️", "Balance, moderation, patience", "Excess, imbalance, impatience", "balance,moderation,harmony"},
		{"The Devil", "⛓️", "Attachment, temptation, restriction", "Release, breaking free, reclaiming power", "bondage,materialism,temptation"},
		{"The Tower", "🗼", "Sudden upheaval, revelation, awakening", "Avoided disaster, fear of change, delayed collapse", "upheaval,revelation,change"},
		{"The Star", "⭐", "Hope, renewal, serenity", "Discouragement, faithlessness, disconnection", "hope,inspiration,renewal"},
		{"The Moon", "🌕", "Illusion, intuition, the unknown", "Clarity emerging, fear receding, confusion lifting", "illusion,dreams,subconscious"},
		{"The Sun", "☀️", "Joy, success, vitality", "Temporary gloom, dimmed optimism, delays", "joy,success,vitality"},
		{"Judgement", "📯", "Reckoning, awakening, a second chance", "Self-doubt, harsh judgement, refusal of the call", "rebirth,reckoning,awakening"},
		{"The World", "🌍", "Completion, accomplishment, wholeness", "Incompletion, loose ends, delayed closure", "completion,achievement,wholeness"},
	}

	for i, c := range majorArcana {
		row := models.TarotCard{
			Name:            c.name,
			CardType:        "major",
			Suit:            "none",
			Number:          i,
			Emoji:           c.emoji,
			MeaningUpright:  c.upright,
			MeaningReversed: c.reversed,
			Keywords:        c.keywords,
			IsActive:        true,
		}
		result := db.Where("name = ?", row.Name).FirstOrCreate(&row)
		if result.Error != nil {
			log.Printf("Failed to seed card %s: %v", row.Name, result.Error)
		} else if result.RowsAffected > 0 {
			fmt.Printf("✓ Created tarot card: %s %s\n", row.Emoji, row.Name)
		} else {
			fmt.Printf("  Tarot card already exists: %s\n", row.Name)
		}
	}
}

// seedAdmin creates a bootstrap super admin when no account exists and
// credentials are supplied via environment. Without a password nothing
// is created; the HTTP setup flow stays available.
func seedAdmin(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.AdminAccount{}).Count(&count).Error; err != nil {
		log.Printf("Failed to count admin accounts: %v", err)
		return
	}
	if count > 0 {
		fmt.Println("  Admin account already exists, skipping bootstrap")
		return
	}

	password := os.Getenv("ASTRO_DEFAULT_ADMIN_PASSWORD")
	if password == "" {
		fmt.Println("  ASTRO_DEFAULT_ADMIN_PASSWORD not set, skipping admin bootstrap")
		return
	}
	if !models.StrongPassword(password) {
		log.Print("Bootstrap admin password rejected: must be at least 12 characters with uppercase, lowercase, number, and special character")
		return
	}

	username := os.Getenv("ASTRO_DEFAULT_ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	email := os.Getenv("ASTRO_DEFAULT_ADMIN_EMAIL")
	if email == "" {
		email = "admin@localhost"
	}

	account := models.AdminAccount{
		Username: username,
		Email:    email,
		Role:     models.RoleSuperAdmin,
		IsActive: true,
	}
	if err := account.SetPassword(password); err != nil {
		log.Printf("Failed to hash bootstrap admin password: %v", err)
		return
	}

	if err := db.Create(&account).Error; err != nil {
		log.Printf("Failed to seed admin account: %v", err)
		return
	}
	fmt.Printf("✓ Created bootstrap admin: %s\n", account.Username)
}
