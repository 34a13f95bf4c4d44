package service

import "math"

// ValidationPolicy 取得結果の座標検証ポリシー
type ValidationPolicy string

const (
	// ValidationPolicyStrict 緯度経度の範囲チェックを行う
	ValidationPolicyStrict ValidationPolicy = "strict"
	// ValidationPolicyPermissive 有限な数値であれば許容する
	ValidationPolicyPermissive ValidationPolicy = "permissive"
)

// ParseValidationPolicy 文字列からポリシーを解決する。未知の値はstrict扱い。
func ParseValidationPolicy(s string) ValidationPolicy {
	if s == string(ValidationPolicyPermissive) {
		return ValidationPolicyPermissive
	}
	return ValidationPolicyStrict
}

// CoordinateValidator 設定されたポリシーに従って座標を検証する
type CoordinateValidator struct {
	policy ValidationPolicy
}

// NewCoordinateValidator 新しいCoordinateValidatorインスタンスを作成
func NewCoordinateValidator(policy ValidationPolicy) *CoordinateValidator {
	return &CoordinateValidator{
		policy: policy,
	}
}

// Policy 現在の検証ポリシーを取得
func (v *CoordinateValidator) Policy() ValidationPolicy {
	return v.policy
}

// IsValid 緯度経度がポリシー上有効かチェックする
// どちらのポリシーでも非有限値（NaN・Inf）は拒否する。
func (v *CoordinateValidator) IsValid(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	if v.policy == ValidationPolicyPermissive {
		return true
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
