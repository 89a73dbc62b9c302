package synthetic

type product struct {
	name     string
	price    float64
	category string
}

var products = []product{
	{"Wireless Headphones", 79.99, "Electronics"},
	{"Running Shoes", 129.99, "Sports"},
	{"Smart Watch", 249.99, "Electronics"},
	{"Yoga Mat", 34.99, "Sports"},
	{"Coffee Maker", 89.99, "Home"},
	{"Backpack", 59.99, "Accessories"},
	{"Bluetooth Speaker", 99.99, "Electronics"},
	{"Water Bottle", 24.99, "Sports"},
	{"Desk Lamp", 44.99, "Home"},
	{"Phone Case", 19.99, "Accessories"},
	{"Laptop Stand", 39.99, "Office"},
	{"Fitness Tracker", 149.99, "Sports"},
	{"Wireless Mouse", 29.99, "Electronics"},
	{"Notebook Set", 15.99, "Office"},
	{"Travel Mug", 22.99, "Home"},
}

var emailCampaigns = []string{
	"Weekly Newsletter",
	"Product Launch Announcement",
	"Flash Sale Alert",
	"Personalized Recommendations",
	"Cart Abandonment Reminder",
	"Welcome Email",
	"Customer Survey",
	"Seasonal Promotion",
}

var sentiments = []string{
	"Happy", "Sad", "Elated", "Frustrated", "Disgusted",
	"Angry", "Excited", "Anxious", "Calm", "Stressed",
}

var lifestyleQuotients = []string{
	"Careerist", "Traveller", "Foodie", "Connoisseur", "Homebody",
	"Adventurer", "Minimalist", "Luxury Seeker", "Health Enthusiast", "Tech Savvy",
}

var healthProfiles = []string{
	"Sick", "Athletic", "Stressed", "Hypertensive", "Hypotensive",
	"Healthy", "Recovering", "Fit", "Active", "Sedentary",
}

var fitnessMilestones = []string{
	"Rookie", "Amateur", "Professional", "Elite",
	"Beginner", "Intermediate", "Advanced", "Champion",
}

var purchaseIntents = []string{
	"Very High", "Immediate", "High", "Medium", "Tepid",
	"Low", "Not Interested", "Considering", "Researching",
}

var favouriteBrands = []string{
	"Apple", "Samsung", "Nike", "Adidas", "Tesla", "BMW", "Mercedes", "Starbucks",
	"Whole Foods", "Lululemon", "Patagonia", "North Face", "Sony", "Bose",
	"Coach", "Gucci", "Louis Vuitton", "Amazon", "Netflix", "Spotify",
	"REI", "Target", "Costco", "Trader Joes", "Peloton", "Fitbit", "Garmin",
}

var favouriteDestinations = []string{
	"Paris", "Tokyo", "New York", "London", "Dubai", "Barcelona", "Rome",
	"Sydney", "Bali", "Maldives", "Iceland", "Switzerland", "Hawaii",
	"Thailand", "Greece", "Portugal", "Amsterdam", "Singapore", "Hong Kong",
	"Los Angeles", "Miami", "San Francisco", "Seattle", "Austin", "Denver",
}

var hobbies = []string{
	"Reading", "Painting", "Photography", "Hiking", "Cycling", "Running",
	"Yoga", "Meditation", "Cooking", "Baking", "Gardening", "Gaming",
	"Playing Guitar", "Piano", "Singing", "Dancing", "Swimming", "Surfing",
	"Rock Climbing", "Camping", "Travel Blogging", "Vlogging", "Podcasting",
	"Coding", "Writing", "Drawing", "Sculpting", "Pottery", "Wine Tasting",
	"Coffee Roasting", "Knitting", "Woodworking", "Car Restoration",
}

var imminentEvents = []string{
	"Watch Soccer match final with friends today",
	"Surprise girlfriend with a birthday gift tomorrow",
	"Waiting anxiously for Samsung mobile phone product launch next week",
	"Planning surprise anniversary dinner for spouse this weekend",
	"Attending product demo at Apple Store tomorrow afternoon",
	"Going on first date at Italian restaurant tonight",
	"Job interview scheduled for Monday morning",
	"Marathon training run this Saturday at 6 AM",
	"Virtual yoga class starting in 2 hours",
	"Picking up new Tesla Model 3 from showroom today",
	"Concert tickets for favorite band next Friday",
	"Weekend getaway to wine country next month",
	"Dental appointment scheduled for Thursday",
	"Meeting personal trainer for first session tomorrow",
}

var firstNames = []string{
	"Ava", "Liam", "Maya", "Noah", "Priya", "Lucas", "Sofia", "Ethan",
	"Amara", "Kai", "Isla", "Mateo", "Zara", "Felix", "Nina", "Omar",
	"Chloe", "Ravi", "Elena", "Hugo",
}

var lastNames = []string{
	"Anderson", "Brooks", "Chen", "Diaz", "Evans", "Fischer", "Garcia",
	"Hassan", "Ivanova", "Johnson", "Kim", "Lopez", "Mehta", "Nguyen",
	"Okafor", "Patel", "Quinn", "Rossi", "Silva", "Tanaka",
}
