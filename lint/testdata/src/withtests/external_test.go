package withtests_test

import (
	"testing"

	"withtests"
)

//apisurface:public Nothing

func Check(t *testing.T) {
	withtests.Open()
}
