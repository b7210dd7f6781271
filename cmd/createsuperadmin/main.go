package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/chirayupatel9/palm-cafe-api-sub001/internal/model"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/config"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/database"
	"github.com/chirayupatel9/palm-cafe-api-sub001/pkg/logger"
)

// Bootstrap accounts use a cheaper cost than the API path; they are
// expected to rotate their password after first login.
const bootstrapHashCost = 10

const minPasswordLength = 6

func main() {
	cfg, err := config.Load("cafe-createsuperadmin")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()

	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db, model.All()...); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	reader := bufio.NewReader(os.Stdin)

	email := prompt(reader, "Email: ")
	if email == "" || !strings.Contains(email, "@") {
		fmt.Fprintln(os.Stderr, "A valid email is required")
		os.Exit(1)
	}

	username := prompt(reader, "Username: ")
	if username == "" {
		fmt.Fprintln(os.Stderr, "A username is required")
		os.Exit(1)
	}

	password := prompt(reader, "Password: ")
	if len(password) < minPasswordLength {
		fmt.Fprintf(os.Stderr, "Password must be at least %d characters\n", minPasswordLength)
		os.Exit(1)
	}

	var existing int64
	if err := db.Model(&model.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&existing).Error; err != nil {
		log.Fatal("Failed to check existing users", zap.Error(err))
	}
	if existing > 0 {
		fmt.Fprintln(os.Stderr, "A user with that email or username already exists")
		os.Exit(1)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bootstrapHashCost)
	if err != nil {
		log.Fatal("Failed to hash password", zap.Error(err))
	}

	user := &model.User{
		Email:    email,
		Username: username,
		Password: string(hashed),
		Role:     model.RoleSuperAdmin,
	}
	if err := db.Create(user).Error; err != nil {
		log.Fatal("Failed to create super admin", zap.Error(err))
	}

	fmt.Printf("Super admin created (id=%d, email=%s)\n", user.ID, user.Email)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to read input:", err)
		os.Exit(1)
	}
	return strings.TrimSpace(line)
}
