package oracle_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestOracleProperties(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Oracle Properties Suite")
}
