package cms

func item(key, en, zhHant string, cat Category) ContentItem {
	return ContentItem{
		ID:          key,
		Key:         key,
		Title:       Text(en, zhHant),
		Description: Text("", ""),
		Images:      []string{},
		Category:    cat,
	}
}

func ptr(l LocalizedString) *LocalizedString {
	return &l
}

func recipe(key, en, zhHant, group string, ingredients, analysis LocalizedString) ContentItem {
	c := item(key, en, zhHant, CategoryRecipe)
	c.Group = group
	c.Ingredients = ptr(ingredients)
	c.Analysis = ptr(analysis)
	return c
}

func pet(key, en, zhHant string, feeding, transition LocalizedString) ContentItem {
	c := item(key, en, zhHant, CategoryPet)
	c.FeedingGuide = ptr(feeding)
	c.TransitionGuide = ptr(transition)
	return c
}

// Defaults returns the seeded content for a category. Each call returns fresh values.
func Defaults(cat Category) []ContentItem {
	switch cat {
	case CategoryBrand:
		return []ContentItem{
			item("brand_petfoodnz", "PetfoodNZ Manufacture", "紐西蘭製造工藝", CategoryBrand),
			item("brand_quality", "Quality & Promise", "品質與承諾", CategoryBrand),
			item("brand_nurtured", "Nurtured Nature", "紐西蘭全貌", CategoryBrand),
			item("brand_subtraction", "The Art of Subtraction", "減法藝術", CategoryBrand),
			item("brand_awakening", "The Art of Awakening", "喚醒哲學", CategoryBrand),
			item("brand_texture", "The Art of Texture", "口感工藝", CategoryBrand),
		}
	case CategoryHome:
		return []ContentItem{
			item("home_hero", "Home Hero Banner", "首頁主視覺", CategoryHome),
			item("home_intro", "Brand Introduction", "品牌簡介區塊", CategoryHome),
			item("home_features", "Key Features", "核心賣點", CategoryHome),
		}
	case CategoryPet:
		return []ContentItem{
			pet("pet_cat", "For Cats", "貓用系列",
				Text("Feed adult cats 2-3 cans per 4kg of body weight daily. Kittens require up to twice as much. Fresh water should be available at all times.",
					"成貓每4公斤體重每日餵食2-3罐。幼貓需求量可能為成貓的兩倍。請確保隨時提供新鮮飲用水。"),
				Text("For sensitive cats, allow 10-14 days for transition. Mix small amounts of new food into old food initially.",
					"對於腸胃敏感的貓咪，建議預留10-14天的轉換期。初期請將少量新糧混合在舊糧中餵食。")),
			pet("pet_dog", "For Dogs", "犬用系列",
				Text("Serve at room temperature. Fresh water should be available at all times. Adjust feeding amounts as necessary to maintain optimal weight.",
					"請在室溫下餵食。請確保隨時提供新鮮飲用水。請根據寵物的活動量和體重調整餵食量，以保持理想體態。"),
				Text("Mix increasing amounts of the new food with decreasing amounts of the old food over a 7-day period.",
					"建議在7天內逐漸增加新糧的比例，同時減少舊糧的份量，讓寵物腸胃適應。")),
		}
	case CategorySeries:
		return []ContentItem{
			item("series_joint", "Joint Care Collection", "關節養護系列", CategorySeries),
			item("series_grainfree", "Grain Free", "經典無穀系列", CategorySeries),
			item("series_fullcare", "Full Care Collection", "全方位呵護系列", CategorySeries),
			item("series_wholesome", "Wholesome Essentials", "無穀高蛋白系列", CategorySeries),
		}
	case CategoryRecipe:
		return []ContentItem{
			recipe("recipe_chicken", "Chicken", "散養雞", "Joint Care",
				Text("Free-range Chicken, Chicken Broth, Chicken Liver, Green Lipped Mussel, Pumpkin, Glucosamine.",
					"散養雞肉、雞湯、雞肝、綠唇貽貝、南瓜、葡萄糖胺。"),
				Text("Crude Protein (min) 10%, Crude Fat (min) 5%, Crude Fiber (max) 1%, Moisture (max) 78%.",
					"粗蛋白 (最少) 10%, 粗脂肪 (最少) 5%, 粗纖維 (最多) 1%, 水分 (最多) 78%。")),
			recipe("recipe_beef", "Beef", "草飼牛", "Joint Care",
				Text("Grass-fed Beef, Beef Broth, Beef Liver, Green Lipped Mussel, Sweet Potato, Chondroitin Sulfate.",
					"草飼牛肉、牛骨湯、牛肝、綠唇貽貝、甘薯、硫酸軟骨素。"),
				Text("Crude Protein (min) 11%, Crude Fat (min) 6%, Crude Fiber (max) 1.5%, Moisture (max) 75%.",
					"粗蛋白 (最少) 11%, 粗脂肪 (最少) 6%, 粗纖維 (最多) 1.5%, 水分 (最多) 75%。")),
			recipe("recipe_lamb", "Lamb", "放牧羊", "Joint Care",
				Text("Pasture-raised Lamb, Lamb Broth, Lamb Kidney, Green Lipped Mussel, Peas, Turmeric.",
					"放牧羊肉、羊湯、羊腎、綠唇貽貝、豌豆、薑黃。"),
				Text("Crude Protein (min) 9.5%, Crude Fat (min) 8%, Crude Fiber (max) 1%, Moisture (max) 76%.",
					"粗蛋白 (最少) 9.5%, 粗脂肪 (最少) 8%, 粗纖維 (最多) 1%, 水分 (最多) 76%。")),
			recipe("recipe_chicken_cod", "Chicken & Cod", "雞肉鱈魚", "Grain Free",
				Text("Chicken, Cod, Chicken Broth, Peas, Potatoes, Fish Oil, Taurine.",
					"雞肉、鱈魚、雞湯、豌豆、馬鈴薯、魚油、牛磺酸。"),
				Text("Crude Protein (min) 32%, Crude Fat (min) 15%, Crude Fiber (max) 4%, Moisture (max) 10%.",
					"粗蛋白 (最少) 32%, 粗脂肪 (最少) 15%, 粗纖維 (最多) 4%, 水分 (最多) 10%。")),
			recipe("recipe_beef_cod", "Beef & Cod", "牛肉鱈魚", "Grain Free",
				Text("Beef, Cod, Beef Broth, Lentils, Chickpeas, Flaxseed, Vitamin E Supplement.",
					"牛肉、鱈魚、牛湯、扁豆、鷹嘴豆、亞麻籽、維生素E補充劑。"),
				Text("Crude Protein (min) 30%, Crude Fat (min) 14%, Crude Fiber (max) 4.5%, Moisture (max) 10%.",
					"粗蛋白 (最少) 30%, 粗脂肪 (最少) 14%, 粗纖維 (最多) 4.5%, 水分 (最多) 10%。")),
			recipe("recipe_lamb_salmon", "Lamb & Salmon", "羊肉三文魚", "Grain Free",
				Text("Lamb, Salmon, Lamb Meal, Sweet Potato, Salmon Oil, Dried Chicory Root.",
					"羊肉、三文魚、羊肉粉、甘薯、三文魚油、乾菊苣根。"),
				Text("Crude Protein (min) 28%, Crude Fat (min) 16%, Crude Fiber (max) 4%, Moisture (max) 10%.",
					"粗蛋白 (最少) 28%, 粗脂肪 (最少) 16%, 粗纖維 (最多) 4%, 水分 (最多) 10%。")),
		}
	}
	return nil
}
