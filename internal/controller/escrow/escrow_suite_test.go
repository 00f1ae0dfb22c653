package escrow

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEscrow(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Escrow Controller Suite")
}
