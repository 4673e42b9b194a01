package memory

import (
	"testing"

	"github.com/BitOnUranus/base64/internal/repository/storetest"
)

func TestContentStore(t *testing.T) {
	storetest.Run(t, NewContentStore())
}
