package config

// Loading .env before the first cleanenv.ReadEnv call.
import _ "github.com/joho/godotenv/autoload"
