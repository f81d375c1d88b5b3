package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/domain/car"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/observability"
)

var (
	// ErrNoFields means an update carried an empty field map.
	ErrNoFields = errors.New("no fields to update")
	// ErrBadField means a caller-supplied key is not an updatable column.
	// Keys are never interpolated into SQL without passing the allow-list.
	ErrBadField = errors.New("unknown column")
)

// updatableColumns is the allow-list of caller-settable columns. id and the
// timestamps are owned by the store; hold_status has its own operation.
var updatableColumns = map[string]bool{
	"thumbnail":           true,
	"brand":               true,
	"name":                true,
	"variant":             true,
	"km_driven":           true,
	"fuel_type":           true,
	"body_type":           true,
	"transmission_type":   true,
	"price":               true,
	"location":            true,
	"insurance":           true,
	"no_of_seats":         true,
	"reg_number":          true,
	"ownership":           true,
	"engine_displacement": true,
	"highway_mileage":     true,
	"make_year":           true,
	"reg_year":            true,
	"features":            true,
	"specifications":      true,
	"images":              true,
}

// jsonColumns are stored as jsonb; their values arrive as arbitrary decoded
// JSON and get re-serialized before binding.
var jsonColumns = map[string]bool{
	"features":       true,
	"specifications": true,
	"images":         true,
}

const carColumns = `id, thumbnail, brand, name, variant, km_driven, fuel_type, body_type,
		transmission_type, price, location, insurance, no_of_seats, reg_number,
		ownership, engine_displacement, highway_mileage, make_year, reg_year,
		features, specifications, images, hold_status, created_at, updated_at`

const summaryColumns = `id, thumbnail, brand, name, variant, km_driven, fuel_type, body_type,
		transmission_type, price, location, insurance, no_of_seats, reg_number,
		ownership, engine_displacement, highway_mileage, make_year, reg_year,
		hold_status, created_at, updated_at`

type CarsRepo struct {
	pool *pgxpool.Pool
	obs  *observability.Prom
}

func NewCarsRepo(pool *pgxpool.Pool, obs *observability.Prom) *CarsRepo {
	return &CarsRepo{
		pool: pool,
		obs:  obs,
	}
}

func (r *CarsRepo) Create(ctx context.Context, req car.CreateCarRequest) (car.Car, error) {
	features, err := marshalBlob(req.Features)
	if err != nil {
		return car.Car{}, err
	}

	specs, err := marshalBlob(req.Specifications)
	if err != nil {
		return car.Car{}, err
	}

	images, err := json.Marshal(orEmpty(req.Images))
	if err != nil {
		return car.Car{}, err
	}

	var c car.Car

	err = r.obs.ObserveDB("cars.create", func() error {
		row := r.pool.QueryRow(ctx,
			`INSERT INTO cars (
				thumbnail, brand, name, variant, km_driven, fuel_type, body_type,
				transmission_type, price, location, insurance, no_of_seats, reg_number,
				ownership, engine_displacement, highway_mileage, make_year, reg_year,
				features, specifications, images, hold_status, created_at, updated_at
			)
			VALUES (
				$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,
				$19::jsonb,$20::jsonb,$21::jsonb,$22,NOW(),NOW()
			)
			RETURNING `+carColumns,
			req.Thumbnail, req.Brand, req.Name, req.Variant, req.KMDriven,
			req.FuelType, req.BodyType, req.TransmissionType, req.Price,
			req.Location, req.Insurance, req.NoOfSeats, req.RegNumber,
			req.Ownership, req.EngineDisplacement, req.HighwayMileage,
			req.MakeYear, req.RegYear,
			string(features), string(specs), string(images), car.HoldStatusActive,
		)

		var scanErr error
		c, scanErr = scanCar(row)
		return scanErr
	})

	if err != nil {
		return car.Car{}, err
	}

	return c, nil
}

func (r *CarsRepo) List(ctx context.Context) ([]car.Summary, error) {
	var out []car.Summary

	err := r.obs.ObserveDB("cars.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+summaryColumns+`
			FROM cars
			ORDER BY created_at DESC, id DESC`)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]car.Summary, 0, 32)

		for rows.Next() {
			var s car.Summary

			err = rows.Scan(
				&s.ID, &s.Thumbnail, &s.Brand, &s.Name, &s.Variant, &s.KMDriven,
				&s.FuelType, &s.BodyType, &s.TransmissionType, &s.Price,
				&s.Location, &s.Insurance, &s.NoOfSeats, &s.RegNumber,
				&s.Ownership, &s.EngineDisplacement, &s.HighwayMileage,
				&s.MakeYear, &s.RegYear, &s.HoldStatus, &s.CreatedAt, &s.UpdatedAt,
			)

			if err != nil {
				return err
			}

			out = append(out, s)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *CarsRepo) GetByID(ctx context.Context, id int64) (car.Car, error) {
	var c car.Car

	err := r.obs.ObserveDB("cars.get", func() error {
		row := r.pool.QueryRow(ctx,
			`SELECT `+carColumns+` FROM cars WHERE id = $1`, id)

		var scanErr error
		c, scanErr = scanCar(row)
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return car.Car{}, car.ErrNotFound
		}

		return car.Car{}, err
	}

	return c, nil
}

// Update rewrites only the supplied columns plus updated_at and returns the
// resulting row.
func (r *CarsRepo) Update(ctx context.Context, id int64, fields map[string]any) (car.Car, error) {
	query, args, err := buildUpdateQuery(id, fields)

	if err != nil {
		return car.Car{}, err
	}

	var c car.Car

	err = r.obs.ObserveDB("cars.update", func() error {
		row := r.pool.QueryRow(ctx, query, args...)

		var scanErr error
		c, scanErr = scanCar(row)
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return car.Car{}, car.ErrNotFound
		}

		return car.Car{}, err
	}

	return c, nil
}

func (r *CarsRepo) Delete(ctx context.Context, id int64) (car.Car, error) {
	var c car.Car

	err := r.obs.ObserveDB("cars.delete", func() error {
		row := r.pool.QueryRow(ctx,
			`DELETE FROM cars WHERE id = $1 RETURNING `+carColumns, id)

		var scanErr error
		c, scanErr = scanCar(row)
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return car.Car{}, car.ErrNotFound
		}

		return car.Car{}, err
	}

	return c, nil
}

func (r *CarsRepo) SetHoldStatus(ctx context.Context, id int64, status car.HoldStatus) (car.Car, error) {
	var c car.Car

	err := r.obs.ObserveDB("cars.hold", func() error {
		row := r.pool.QueryRow(ctx,
			`UPDATE cars SET hold_status = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING `+carColumns, id, status)

		var scanErr error
		c, scanErr = scanCar(row)
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return car.Car{}, car.ErrNotFound
		}

		return car.Car{}, err
	}

	return c, nil
}

// buildUpdateQuery turns a caller-supplied field map into an UPDATE statement.
// Keys are sorted so the generated SQL is deterministic, and every key must be
// on the allow-list.
func buildUpdateQuery(id int64, fields map[string]any) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, ErrNoFields
	}

	cols := make([]string, 0, len(fields))

	for col := range fields {
		if !updatableColumns[col] {
			return "", nil, fmt.Errorf("%w: %s", ErrBadField, col)
		}

		cols = append(cols, col)
	}

	sort.Strings(cols)

	sets := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(cols)+1)

	for i, col := range cols {
		val := fields[col]

		if jsonColumns[col] {
			b, err := json.Marshal(val)

			if err != nil {
				return "", nil, err
			}

			sets = append(sets, fmt.Sprintf("%s = $%d::jsonb", col, i+1))
			args = append(args, string(b))
			continue
		}

		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, val)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE cars SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), carColumns,
	)

	return query, args, nil
}

func scanCar(row pgx.Row) (car.Car, error) {
	var c car.Car

	err := row.Scan(
		&c.ID, &c.Thumbnail, &c.Brand, &c.Name, &c.Variant, &c.KMDriven,
		&c.FuelType, &c.BodyType, &c.TransmissionType, &c.Price,
		&c.Location, &c.Insurance, &c.NoOfSeats, &c.RegNumber,
		&c.Ownership, &c.EngineDisplacement, &c.HighwayMileage,
		&c.MakeYear, &c.RegYear,
		&c.Features, &c.Specifications, &c.Images,
		&c.HoldStatus, &c.CreatedAt, &c.UpdatedAt,
	)

	if err != nil {
		return car.Car{}, err
	}

	return c, nil
}

func marshalBlob(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		return json.RawMessage("null"), nil
	}

	if !json.Valid(raw) {
		return nil, fmt.Errorf("invalid json blob")
	}

	return raw, nil
}

func orEmpty(images []string) []string {
	if images == nil {
		return []string{}
	}

	return images
}
