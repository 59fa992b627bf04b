package persistence

import "time"

// VesselModel represents the vessels table: one row per Fiskeridirektoratet
// vessel registry id, carrying the engine parameters the fuel estimator
// needs.
type VesselModel struct {
	ID                      int64    `gorm:"column:id;primaryKey"`
	CallSign                string   `gorm:"column:call_sign;not null;index"`
	Mmsi                    *int     `gorm:"column:mmsi;index"`
	EnginePowerKW           *float64 `gorm:"column:engine_power_kw"`
	SpecificFuelConsumption *float64 `gorm:"column:specific_fuel_consumption"`
	LengthMeters            *float64 `gorm:"column:length_meters"`
	LengthGroup             string   `gorm:"column:length_group;not null"`
	Active                  bool     `gorm:"column:active;not null;default:true"`
}

func (VesselModel) TableName() string { return "vessels" }

// VesselMappingConflictModel records a call-sign/MMSI pair observed to map
// to more than one vessel id.
type VesselMappingConflictModel struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CallSign   string    `gorm:"column:call_sign;not null;index"`
	Mmsi       *int      `gorm:"column:mmsi"`
	VesselIDs  string    `gorm:"column:vessel_ids;type:text;not null"` // JSON array of int64
	DetectedAt time.Time `gorm:"column:detected_at;not null"`
}

func (VesselMappingConflictModel) TableName() string { return "vessel_mapping_conflicts" }

// PositionModel represents the positions table: raw AIS/VMS reports plus
// the pruning/tagging audit trail left by the position-layers pipeline.
type PositionModel struct {
	ID                 int64     `gorm:"column:id;primaryKey;autoIncrement"`
	VesselCallSign     string    `gorm:"column:vessel_call_sign;not null;index:idx_positions_callsign_ts"`
	Timestamp          time.Time `gorm:"column:timestamp;not null;index:idx_positions_callsign_ts"`
	Source             string    `gorm:"column:source;not null"`
	Lat                float64   `gorm:"column:lat;not null"`
	Lon                float64   `gorm:"column:lon;not null"`
	SpeedKnots         *float64  `gorm:"column:speed_knots"`
	CourseDegrees      *float64  `gorm:"column:course_degrees"`
	NavigationalStatus *string   `gorm:"column:navigational_status"`
	DistanceToShoreM   float64   `gorm:"column:distance_to_shore_m;not null;default:0"`
	PrunedBy           string    `gorm:"column:pruned_by"`
	PrunedAuditJSON    string    `gorm:"column:pruned_audit_json;type:text"`
	InsideHaul         bool      `gorm:"column:inside_haul;not null;default:false"`
	ActiveGear         bool      `gorm:"column:active_gear;not null;default:false"`
}

func (PositionModel) TableName() string { return "positions" }

// VesselEventModel represents the vessel_events table: the unified ERS,
// haul, and landing event stream the trip assemblers consume.
type VesselEventModel struct {
	ID                    int64      `gorm:"column:id;primaryKey;autoIncrement"`
	VesselID              int64      `gorm:"column:vessel_id;not null;index:idx_vessel_events_vessel_ts"`
	Kind                  string     `gorm:"column:kind;not null"`
	Timestamp             time.Time  `gorm:"column:timestamp;not null;index:idx_vessel_events_vessel_ts"`
	TripID                *int64     `gorm:"column:trip_id;index"`
	SequenceNumber        int64      `gorm:"column:sequence_number;not null"`

	// ErsMessage fields, flattened. Populated only when Kind is one of the
	// ERS kinds; NULL columns otherwise.
	ErsMessageID          *int64     `gorm:"column:ers_message_id"`
	ErsMessageNumber      *int       `gorm:"column:ers_message_number"`
	ErsMessageTimestamp   *time.Time `gorm:"column:ers_message_timestamp"`
	ErsEstimatedTimestamp *time.Time `gorm:"column:ers_estimated_timestamp"`
	ErsPortCode           *string    `gorm:"column:ers_port_code"`
	ErsCallSign           *string    `gorm:"column:ers_call_sign"`
	ErsStartLat           *float64   `gorm:"column:ers_start_lat"`
	ErsStartLon           *float64   `gorm:"column:ers_start_lon"`
	ErsStopLat            *float64   `gorm:"column:ers_stop_lat"`
	ErsStopLon            *float64   `gorm:"column:ers_stop_lon"`
	ErsGear               *string    `gorm:"column:ers_gear"`
	ErsHaulDurationMin    *int       `gorm:"column:ers_haul_duration_min"`
	ErsReloadToCallSign   *string    `gorm:"column:ers_reload_to_call_sign"`
	ErsReloadFromCallSign *string    `gorm:"column:ers_reload_from_call_sign"`
	ErsReloadingTimestamp *time.Time `gorm:"column:ers_reloading_timestamp"`
}

func (VesselEventModel) TableName() string { return "vessel_events" }

// TripModel represents the trips table.
type TripModel struct {
	ID                   int64      `gorm:"column:id;primaryKey;autoIncrement"`
	VesselID             int64      `gorm:"column:vessel_id;not null;index:idx_trips_vessel_period"`
	Assembler            string     `gorm:"column:assembler;not null"`
	PeriodStart          time.Time  `gorm:"column:period_start;not null;index:idx_trips_vessel_period"`
	PeriodEnd            time.Time  `gorm:"column:period_end;not null"`
	PeriodExtendedStart  time.Time  `gorm:"column:period_extended_start;not null"`
	PeriodExtendedEnd    time.Time  `gorm:"column:period_extended_end;not null"`
	LandingCoverageStart time.Time  `gorm:"column:landing_coverage_start;not null"`
	LandingCoverageEnd   time.Time  `gorm:"column:landing_coverage_end;not null"`
	PrecisionOutcome     string     `gorm:"column:precision_outcome"`
	PrecisionStart       *time.Time `gorm:"column:precision_start"`
	PrecisionEnd         *time.Time `gorm:"column:precision_end"`
	StartPortCode        *string    `gorm:"column:start_port_code"`
	StartPortName        *string    `gorm:"column:start_port_name"`
	EndPortCode          *string    `gorm:"column:end_port_code"`
	EndPortName          *string    `gorm:"column:end_port_name"`
	CacheVersion         int64      `gorm:"column:cache_version;not null;default:0"`
}

func (TripModel) TableName() string { return "trips" }

// HaulModel represents the hauls table.
type HaulModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	VesselID        int64     `gorm:"column:vessel_id;not null;index"`
	TripID          *int64    `gorm:"column:trip_id;index"`
	GearGroup       string    `gorm:"column:gear_group;not null"`
	Start           time.Time `gorm:"column:start;not null"`
	Stop            time.Time `gorm:"column:stop;not null"`
	StartLatitude   float64   `gorm:"column:start_latitude;not null"`
	StartLongitude  float64   `gorm:"column:start_longitude;not null"`
	CatchLocation   *string   `gorm:"column:catch_location;index"`
	WeatherAttached bool      `gorm:"column:weather_attached;not null;default:false"`
	CacheVersion    int64     `gorm:"column:cache_version;not null;default:0"`
}

func (HaulModel) TableName() string { return "hauls" }

// HaulCatchModel represents the haul_catches table: the per-species
// composition of one haul.
type HaulCatchModel struct {
	ID                  int64   `gorm:"column:id;primaryKey;autoIncrement"`
	HaulID              int64   `gorm:"column:haul_id;not null;index"`
	SpeciesFiskeridirID int     `gorm:"column:species_fiskeridir_id;not null"`
	SpeciesGroup        string  `gorm:"column:species_group;not null"`
	LivingWeightKg      float64 `gorm:"column:living_weight_kg;not null"`
}

func (HaulCatchModel) TableName() string { return "haul_catches" }

// HaulDistributionModel represents the haul_distributions table: the
// catch-location weight split computed by the distributor.
type HaulDistributionModel struct {
	ID             int64   `gorm:"column:id;primaryKey;autoIncrement"`
	HaulID         int64   `gorm:"column:haul_id;not null;index:idx_haul_distributions_haul_location"`
	CatchLocation  string  `gorm:"column:catch_location;not null;index:idx_haul_distributions_haul_location"`
	WeightRatio    float64 `gorm:"column:weight_ratio;not null"`
	LivingWeightKg float64 `gorm:"column:living_weight_kg;not null"`
}

func (HaulDistributionModel) TableName() string { return "haul_distributions" }

// LandingModel represents the landings table.
type LandingModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	VesselID      int64     `gorm:"column:vessel_id;not null;index"`
	DeliveryPoint string    `gorm:"column:delivery_point;not null"`
	Timestamp     time.Time `gorm:"column:timestamp;not null;index"`
	TripID        *int64    `gorm:"column:trip_id;index"`
}

func (LandingModel) TableName() string { return "landings" }

// LandingProductModel represents the landing_products table: the
// per-species product breakdown of one landing.
type LandingProductModel struct {
	ID                  int64   `gorm:"column:id;primaryKey;autoIncrement"`
	LandingID           int64   `gorm:"column:landing_id;not null;index"`
	SpeciesFiskeridirID int     `gorm:"column:species_fiskeridir_id;not null"`
	SpeciesGroup        string  `gorm:"column:species_group;not null"`
	GrossWeightKg       float64 `gorm:"column:gross_weight_kg;not null"`
	ProductWeightKg     float64 `gorm:"column:product_weight_kg;not null"`
	LivingWeightKg      float64 `gorm:"column:living_weight_kg;not null"`
	PriceNok            float64 `gorm:"column:price_nok;not null"`
}

func (LandingProductModel) TableName() string { return "landing_products" }

// DeliveryPointModel represents the delivery_points table.
type DeliveryPointModel struct {
	Code   string `gorm:"column:code;primaryKey"`
	Name   string `gorm:"column:name;not null"`
	Source int    `gorm:"column:source;not null"`
}

func (DeliveryPointModel) TableName() string { return "delivery_points" }

// DeliveryPointRedirectModel represents the delivery_point_redirects table:
// one hop of the deprecated-code chain the deliverypoint.Chain resolves.
type DeliveryPointRedirectModel struct {
	FromCode string `gorm:"column:from_code;primaryKey"`
	ToCode   string `gorm:"column:to_code;not null"`
}

func (DeliveryPointRedirectModel) TableName() string { return "delivery_point_redirects" }

// CatchLocationModel represents the catch_locations table: the Norwegian
// grid cells used both for haul distribution and matrix bucketing.
type CatchLocationModel struct {
	ID          string `gorm:"column:id;primaryKey"`
	PolygonJSON string `gorm:"column:polygon_json;type:text;not null"` // JSON array of {lat,lon}
}

func (CatchLocationModel) TableName() string { return "catch_locations" }

// MatrixCellModel represents the matrix_cells table: the cached 5-axis
// aggregate the refresher rebuilds from the hauls/haul_distributions join
// and matrix queries read.
type MatrixCellModel struct {
	ID                int64   `gorm:"column:id;primaryKey;autoIncrement"`
	MonthBucket       int32   `gorm:"column:month_bucket;not null;uniqueIndex:idx_matrix_cell_key"`
	CatchLocation     string  `gorm:"column:catch_location;not null;uniqueIndex:idx_matrix_cell_key"`
	GearGroup         string  `gorm:"column:gear_group;not null;uniqueIndex:idx_matrix_cell_key"`
	SpeciesGroup      string  `gorm:"column:species_group;not null;uniqueIndex:idx_matrix_cell_key"`
	VesselLengthGroup string  `gorm:"column:vessel_length_group;not null;uniqueIndex:idx_matrix_cell_key"`
	LivingWeightKg    float64 `gorm:"column:living_weight_kg;not null"`
}

func (MatrixCellModel) TableName() string { return "matrix_cells" }

// MatrixVersionModel is a single-row table tracking the authoritative and
// shadow-cached version counters the refresher compares.
type MatrixVersionModel struct {
	ID            int   `gorm:"column:id;primaryKey"`
	Authoritative int64 `gorm:"column:authoritative;not null"`
	Cached        int64 `gorm:"column:cached;not null"`
}

func (MatrixVersionModel) TableName() string { return "matrix_versions" }

// FuelEstimateModel represents the fuel_estimates table: one row per
// vessel-day.
type FuelEstimateModel struct {
	ID       int64     `gorm:"column:id;primaryKey;autoIncrement"`
	VesselID int64     `gorm:"column:vessel_id;not null;uniqueIndex:idx_fuel_estimates_vessel_day"`
	Day      time.Time `gorm:"column:day;not null;uniqueIndex:idx_fuel_estimates_vessel_day"`
	Liters   float64   `gorm:"column:liters;not null"`
}

func (FuelEstimateModel) TableName() string { return "fuel_estimates" }

// FuelMeasurementModel represents the fuel_measurements table: vendor
// flow-meter readings reconciled into the engine-model estimate.
type FuelMeasurementModel struct {
	ID                 int64     `gorm:"column:id;primaryKey;autoIncrement"`
	BarentswatchUserID string    `gorm:"column:barentswatch_user_id;not null;default:''"`
	CallSign           string    `gorm:"column:call_sign;not null;index"`
	StartTime          time.Time `gorm:"column:start_time;not null"`
	EndTime            time.Time `gorm:"column:end_time;not null"`
	FuelUsedLiter      float64   `gorm:"column:fuel_used_liter;not null"`
}

func (FuelMeasurementModel) TableName() string { return "fuel_measurements" }

// TripCalculationTimerModel represents the trip_calculation_timers table:
// one row per (vessel, assembler), locked FOR UPDATE around every trip
// commit so concurrent assembly runs for the same vessel serialize.
type TripCalculationTimerModel struct {
	VesselID  int64     `gorm:"column:vessel_id;primaryKey;autoIncrement:false"`
	Assembler string    `gorm:"column:assembler;primaryKey"`
	Timer     time.Time `gorm:"column:timer"`
}

func (TripCalculationTimerModel) TableName() string { return "trip_calculation_timers" }

// TransitionLogModel represents the orchestrator_transitions table: the
// append-only log the runner resumes from on restart.
type TransitionLogModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	FromState string    `gorm:"column:from_state;not null"`
	ToState   string    `gorm:"column:to_state;not null;index"`
	StartedAt time.Time `gorm:"column:started_at;not null"`
	EndedAt   time.Time `gorm:"column:ended_at;not null"`
	Outcome   string    `gorm:"column:outcome;not null"`
	Detail    string    `gorm:"column:detail;type:text"`
}

func (TransitionLogModel) TableName() string { return "orchestrator_transitions" }

// MLModelModel represents the ml_models table: the persisted gradient
// boosted model bytes per registered spec.
type MLModelModel struct {
	ID    string `gorm:"column:id;primaryKey"`
	Bytes []byte `gorm:"column:bytes;type:bytea"`
}

func (MLModelModel) TableName() string { return "ml_models" }

// MLPredictionModel represents the ml_predictions table.
type MLPredictionModel struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CatchLocation string    `gorm:"column:catch_location;not null;uniqueIndex:idx_ml_predictions_key"`
	SpeciesGroup  string    `gorm:"column:species_group;not null;uniqueIndex:idx_ml_predictions_key"`
	Week          int       `gorm:"column:week;not null;uniqueIndex:idx_ml_predictions_key"`
	Year          int       `gorm:"column:year;not null;uniqueIndex:idx_ml_predictions_key"`
	ModelID       string    `gorm:"column:model_id;not null;uniqueIndex:idx_ml_predictions_key"`
	Score         float64   `gorm:"column:score;not null"`
	GeneratedAt   time.Time `gorm:"column:generated_at;not null"`
}

func (MLPredictionModel) TableName() string { return "ml_predictions" }

// SearchIndexMirrorModel represents the search_index_mirror table: a local
// ledger of document versions per meilisearch index. The table is
// migrated, but no repository reads or writes it; reconciliation lists the
// mirror side through meilisearch.Mirror instead.
type SearchIndexMirrorModel struct {
	ID      string `gorm:"column:id;primaryKey"`
	Index   string `gorm:"column:index_name;primaryKey"`
	Version int64  `gorm:"column:version;not null"`
}

func (SearchIndexMirrorModel) TableName() string { return "search_index_mirror" }
