// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"slices"
	"strings"

	"github.com/leoFagundes/breakfast-budget-club/pkg/slug"
)

// # Icon Registry

// iconNames are the lucide icon components a category may use, in their
// PascalCase component form.
var iconNames = []string{
	"Activity", "Apple", "Archive", "ArrowRight", "ArrowUpRight", "Award",
	"Baby", "Banana", "Banknote", "Beer", "Bell", "Bike", "Book", "BookOpen",
	"Bookmark", "Box", "Briefcase", "Building", "Building2", "Bus",
	"Cake", "Calculator", "Calendar", "CalendarDays", "Camera", "Candy", "Car",
	"Carrot", "ChartBar", "ChartLine", "ChartPie", "CheckCircle", "ChefHat",
	"Cherry", "ChevronRight", "Citrus", "Clipboard", "ClipboardList", "Clock",
	"Cloud", "Coffee", "Coins", "Compass", "Contact", "Cookie", "CookingPot",
	"CreditCard", "Croissant", "CupSoda", "Dessert", "DollarSign", "Download",
	"Dumbbell", "Egg", "EggFried", "ExternalLink", "File", "FileText", "Files",
	"Flame", "Flower", "Folder", "FolderOpen", "Gift", "Globe", "GraduationCap",
	"Grape", "Handshake", "Headphones", "Heart", "HelpCircle", "Home",
	"IceCream", "Image", "Info", "Key", "Laptop", "Layers", "LayoutGrid",
	"Leaf", "Library", "Lightbulb", "Link", "List", "ListChecks", "Lock",
	"Mail", "Map", "MapPin", "Medal", "Megaphone", "MessageCircle",
	"MessageSquare", "Mic", "Milk", "Monitor", "Moon", "Music", "Navigation",
	"Newspaper", "Package", "PawPrint", "Percent", "Phone", "PiggyBank",
	"Pizza", "Plane", "Play", "Popcorn", "Presentation", "Receipt", "Rocket",
	"Salad", "Sandwich", "School", "Search", "Send", "Settings", "Shield",
	"ShieldCheck", "ShoppingBag", "ShoppingCart", "Smartphone", "Smile",
	"Soup", "Sparkles", "Sprout", "Star", "Stethoscope", "Store", "Sun", "Tag",
	"Tags", "Target", "TreePine", "TrendingDown", "TrendingUp", "Trophy",
	"Truck", "Upload", "User", "UserCheck", "UserPlus", "Users", "Utensils",
	"UtensilsCrossed", "Video", "Wallet", "Wheat", "Wine", "Wrench", "Zap",
}

var iconRegistry = func() map[string]struct{} {
	registry := make(map[string]struct{}, len(iconNames))
	for _, name := range iconNames {
		registry[name] = struct{}{}
	}
	return registry
}()

// NormalizeIcon maps user input onto the component name form.
//
//	NormalizeIcon("book-open") == "BookOpen"
//	NormalizeIcon(" coffee ")  == "Coffee"
func NormalizeIcon(raw string) string {
	return slug.Pascal(strings.TrimSpace(raw))
}

// IsKnownIcon reports whether raw names a registered icon after normalization.
func IsKnownIcon(raw string) bool {
	_, ok := iconRegistry[NormalizeIcon(raw)]
	return ok
}

// Icons lists the registered icon names, sorted.
func Icons() []string {
	names := slices.Clone(iconNames)
	slices.Sort(names)
	return names
}
