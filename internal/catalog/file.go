package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/quizwire/quizwire/internal/model"
)

// LoadFile reads quiz definitions from a JSON file. The file may contain
// either a single quiz object or an array of quizzes.
func LoadFile(path string) ([]model.Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading quiz file: %w", err)
	}
	return parseQuizzes(data)
}

func parseQuizzes(data []byte) ([]model.Quiz, error) {
	var many []model.Quiz
	if err := json.Unmarshal(data, &many); err == nil {
		return many, nil
	}

	var one model.Quiz
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, fmt.Errorf("parsing quiz file: %w", err)
	}
	return []model.Quiz{one}, nil
}

// FillRepository loads a quiz file into a memory catalog and returns
// the number of quizzes loaded
func FillRepository(repo *MemoryRepository, path string) (int, error) {
	quizzes, err := LoadFile(path)
	if err != nil {
		return 0, err
	}
	for _, quiz := range quizzes {
		repo.Add(quiz)
	}
	return len(quizzes), nil
}
