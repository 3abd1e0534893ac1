package tempstore

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Storage выделяет изолированные временные каталоги по одному на задание.
type Storage struct {
	root string
}

func New(root string) (*Storage, error) {
	if root == "" {
		root = filepath.Join(os.TempDir(), "convertobot")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}
	return &Storage{root: root}, nil
}

func (s *Storage) Root() string {
	return s.root
}

// NewScope создаёт каталог задания. Ключ обязан быть уникальным:
// существующий каталог означает коллизию ключей, это ошибка, а не
// повод переиспользовать путь.
func (s *Storage) NewScope(jobID string) (*Scope, error) {
	if jobID == "" {
		return nil, fmt.Errorf("tempstore: empty job id")
	}
	dir := filepath.Join(s.root, jobID)
	if err := os.Mkdir(dir, 0755); err != nil {
		return nil, fmt.Errorf("tempstore: allocate scope %s: %w", jobID, err)
	}
	return &Scope{dir: dir}, nil
}

// Scope владеет каталогом одного задания. Cleanup выполняется ровно один раз
// и не возвращает ошибку: неудачная уборка логируется и не должна
// перекрывать исход задания.
type Scope struct {
	dir  string
	once sync.Once
}

func (sc *Scope) Dir() string {
	return sc.dir
}

func (sc *Scope) Path(name string) string {
	return filepath.Join(sc.dir, name)
}

func (sc *Scope) Cleanup() {
	sc.once.Do(func() {
		if err := os.RemoveAll(sc.dir); err != nil {
			log.Printf("tempstore: cleanup %s: %v", sc.dir, err)
		}
	})
}
