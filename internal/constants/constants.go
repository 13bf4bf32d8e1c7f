package constants

// 访客状态快照 key
const (
	SnapshotKeyCart           = "zrg-cart"
	SnapshotKeyWishlist       = "zrg-wishlist"
	SnapshotKeyRecentlyViewed = "recently-viewed-scripts"
)

// 快照存储驱动
const (
	StorageDriverMemory   = "memory"
	StorageDriverDatabase = "database"
	StorageDriverRedis    = "redis"
	StorageDriverBolt     = "bolt"
)

// 商品列表排序方式
const (
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
)

// 最近浏览上限
const RecentlyViewedLimit = 10

// 默认推荐数量
const DefaultRecommendationLimit = 3

// 评价评分范围
const (
	ReviewRatingMin = 1
	ReviewRatingMax = 5
)

// 运行模式
const (
	RunModeAll    = "all"
	RunModeAPI    = "api"
	RunModeWorker = "worker"
)

// 队列与任务
const (
	QueueDefault       = "default"
	TaskCatalogRefresh = "catalog:refresh"
	TaskSnapshotPurge  = "snapshot:purge"
)

// 目录刷新触发来源
const (
	RefreshTriggerCron    = "cron"
	RefreshTriggerStartup = "startup"
)
