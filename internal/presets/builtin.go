package presets

// Builtin returns the catalog shipped with the application.
func Builtin() Catalog {
	return Catalog{
		Cassettes: []Cassette{
			{Slug: "shimano-105-11-28", Name: "Shimano 105 11-28 (11s)", Cogs: []int{11, 12, 13, 14, 15, 17, 19, 21, 23, 25, 28}},
			{Slug: "shimano-ultegra-11-30", Name: "Shimano Ultegra 11-30 (11s)", Cogs: []int{11, 12, 13, 14, 15, 17, 19, 21, 24, 27, 30}},
			{Slug: "shimano-105-11-34", Name: "Shimano 105 11-34 (11s)", Cogs: []int{11, 13, 15, 17, 19, 21, 23, 25, 27, 30, 34}},
			{Slug: "shimano-deore-11-42", Name: "Shimano Deore XT 11-42 (11s)", Cogs: []int{11, 13, 15, 17, 19, 21, 24, 28, 32, 37, 42}},
			{Slug: "sram-force-10-33", Name: "SRAM Force XG-1270 10-33 (12s)", Cogs: []int{10, 11, 12, 13, 14, 15, 17, 19, 21, 24, 28, 33}},
			{Slug: "sram-eagle-10-50", Name: "SRAM Eagle 10-50 (12s)", Cogs: []int{10, 12, 14, 16, 18, 21, 24, 28, 32, 36, 42, 50}},
			{Slug: "13s-10-44", Name: "13-speed 10-44", Cogs: []int{10, 11, 12, 13, 14, 15, 17, 19, 22, 26, 32, 38, 44}},
		},
		Wheels: []WheelSize{
			{Slug: "700-rim", Name: "700 mm rim, 20 mm tyre", DiameterMm: 700, TyreOffsetMm: 20},
			{Slug: "700c-28", Name: "700c × 28 mm", DiameterMm: 622, TyreOffsetMm: 28},
			{Slug: "700c-40", Name: "700c × 40 mm", DiameterMm: 622, TyreOffsetMm: 40},
			{Slug: "650b-47", Name: "650b × 47 mm", DiameterMm: 584, TyreOffsetMm: 47},
			{Slug: "29-2.3", Name: "29\" × 2.3\"", DiameterMm: 622, TyreOffsetMm: 58},
			{Slug: "27.5-2.4", Name: "27.5\" × 2.4\"", DiameterMm: 584, TyreOffsetMm: 61},
			{Slug: "26-2.1", Name: "26\" × 2.1\"", DiameterMm: 559, TyreOffsetMm: 53},
		},
	}
}
