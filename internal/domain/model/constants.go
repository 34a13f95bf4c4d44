package model

// FeatureConstants はトイレの設備タグの定数
const (
	FeatureWheelchairAccess = "wheelchair_access"
	FeatureBidet            = "bidet"
	FeatureBabyChange       = "baby_change"
	FeatureShower           = "shower"
	FeatureHandDryer        = "hand_dryer"
	FeatureFree             = "free"
	FeaturePaid             = "paid"
)

// FeatureNameMap は設備タグから表示名へのマッピング
var FeatureNameMap = map[string]string{
	FeatureWheelchairAccess: "車椅子対応",
	FeatureBidet:            "ウォシュレット",
	FeatureBabyChange:       "おむつ交換台",
	FeatureShower:           "シャワー",
	FeatureHandDryer:        "ハンドドライヤー",
	FeatureFree:             "無料",
	FeaturePaid:             "有料",
}

// GetFeatureDisplayName は設備タグから表示名を取得する
func GetFeatureDisplayName(feature string) string {
	if name, ok := FeatureNameMap[feature]; ok {
		return name
	}
	return feature // デフォルトはそのまま返す
}

// GetAllFeatures は全設備タグの一覧を取得する
func GetAllFeatures() []string {
	return []string{
		FeatureWheelchairAccess,
		FeatureBidet,
		FeatureBabyChange,
		FeatureShower,
		FeatureHandDryer,
		FeatureFree,
		FeaturePaid,
	}
}

// IsValidFeature は設備タグが定義済みかチェックする
func IsValidFeature(feature string) bool {
	_, ok := FeatureNameMap[feature]
	return ok
}

// ContributionStepConstants は投稿フォームのステップ定数
const (
	ContributionStepLocation = "location"
	ContributionStepDetails  = "details"
	ContributionStepFeatures = "features"
)

// GetContributionSteps は投稿フォームのステップ一覧を順序付きで取得する
func GetContributionSteps() []string {
	return []string{
		ContributionStepLocation,
		ContributionStepDetails,
		ContributionStepFeatures,
	}
}
