package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValidationPolicy(t *testing.T) {
	assert.Equal(t, ValidationPolicyStrict, ParseValidationPolicy("strict"))
	assert.Equal(t, ValidationPolicyPermissive, ParseValidationPolicy("permissive"))

	// 未知の値や未設定はstrictにフォールバック
	assert.Equal(t, ValidationPolicyStrict, ParseValidationPolicy(""))
	assert.Equal(t, ValidationPolicyStrict, ParseValidationPolicy("lenient"))
}

func TestCoordinateValidator_IsValid(t *testing.T) {
	t.Run("strictは範囲外の座標を拒否する", func(t *testing.T) {
		v := NewCoordinateValidator(ValidationPolicyStrict)

		assert.True(t, v.IsValid(1.3521, 103.8198))
		assert.True(t, v.IsValid(-90, 180))
		assert.True(t, v.IsValid(90, -180))
		assert.False(t, v.IsValid(95, 103.8198))
		assert.False(t, v.IsValid(1.3521, 181))
		assert.False(t, v.IsValid(-91, 0))
	})

	t.Run("permissiveは範囲外でも有限値なら許容する", func(t *testing.T) {
		v := NewCoordinateValidator(ValidationPolicyPermissive)

		assert.True(t, v.IsValid(95, 103.8198))
		assert.True(t, v.IsValid(1.3521, 200))
	})

	t.Run("どちらのポリシーも非有限値は拒否する", func(t *testing.T) {
		for _, policy := range []ValidationPolicy{ValidationPolicyStrict, ValidationPolicyPermissive} {
			v := NewCoordinateValidator(policy)
			assert.False(t, v.IsValid(math.NaN(), 103.8198))
			assert.False(t, v.IsValid(1.3521, math.NaN()))
			assert.False(t, v.IsValid(math.Inf(1), 0))
			assert.False(t, v.IsValid(0, math.Inf(-1)))
		}
	})
}
