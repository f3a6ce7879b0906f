package document

// GatingField is the toggle that controls whether the roleplay-dependent
// fields are available.
var GatingField = FieldID{Category: CategoryFeatures, Field: "roleplay_enabled"}

// gatedToggles are individual feature toggles that depend on roleplay.
var gatedToggles = map[FieldID]bool{
	{Category: CategoryFeatures, Field: "speeding_bonus_enabled"}:  true,
	{Category: CategoryFeatures, Field: "zigzag_bonus_enabled"}:    true,
	{Category: CategoryFeatures, Field: "police_features_enabled"}: true,
}

// gatedCategories are whole categories that depend on roleplay.
var gatedCategories = map[string]bool{
	CategoryCivilian: true,
	CategoryPolice:   true,
}

// IsGated reports whether id becomes unavailable when roleplay is off.
func IsGated(id FieldID) bool {
	return gatedToggles[id] || gatedCategories[id.Category]
}

// IsGatedCategory reports whether an entire category depends on roleplay.
func IsGatedCategory(category string) bool {
	return gatedCategories[category]
}

// DependentCategories returns the gated categories in defaults order.
func DependentCategories() []string {
	var out []string
	for _, c := range Categories() {
		if gatedCategories[c] {
			out = append(out, c)
		}
	}
	return out
}

// RoleplayEnabled reports the gating field's state. A missing or
// non-boolean value counts as enabled, matching the default.
func RoleplayEnabled(doc *Document) bool {
	v, ok := doc.Get(GatingField)
	if !ok || v.Kind() != KindBool {
		return true
	}
	return v.Bool()
}

// Disabled returns the recognized fields that are presented as unavailable
// for doc. It is empty while roleplay is enabled. Stored values are not
// affected.
func Disabled(doc *Document) map[FieldID]bool {
	disabled := make(map[FieldID]bool)
	if RoleplayEnabled(doc) {
		return disabled
	}
	for _, f := range Fields() {
		if IsGated(f.ID) {
			disabled[f.ID] = true
		}
	}
	return disabled
}
