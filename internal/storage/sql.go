package storage

import (
	_ "embed"
)

const (
	insertRunSQL = `
INSERT INTO runs (id,
                  created_at,
                  source,
                  status,
                  noise_floor,
                  delay,
                  config)
VALUES (?, ?, ?, ?, ?, ?, ?)`

	selectRunSQL = `
SELECT 
    id, 
    created_at, 
    source, 
    status, 
    noise_floor, 
    delay, 
    config 
FROM runs 
WHERE 
    id = ?`

	selectRunsSQL = `
SELECT 
    r.id, 
    r.created_at, 
    r.source, 
    r.status, 
    r.noise_floor,
    (SELECT COUNT(*) FROM samples s WHERE s.run_id = r.id),
    (SELECT COUNT(*) FROM features f WHERE f.run_id = r.id),
    (SELECT COUNT(*) FROM interference i WHERE i.run_id = r.id)
FROM runs r
ORDER BY r.created_at, r.id`

	insertSamplesSQL = `
INSERT INTO samples (run_id,
                     idx,
                     frequency,
                     power)
VALUES `

	insertFeaturesSQL = `
INSERT INTO features (run_id,
                      idx,
                      peak_index,
                      frequency_lower,
                      frequency_center,
                      frequency_upper,
                      bandwidth,
                      peak_power,
                      noise_floor,
                      snr,
                      channel_power,
                      satellite)
VALUES `

	insertInterferenceSQL = `
INSERT INTO interference (run_id,
                          idx,
                          kind,
                          frequency_center,
                          snr)
VALUES `

	insertAttenuationSQL = `
INSERT INTO attenuation (run_id,
                         idx,
                         frequency_center,
                         attenuation)
VALUES `

	selectSamplesSQL = `
SELECT 
    frequency, 
    power 
FROM samples 
WHERE 
    run_id = ? 
ORDER BY idx`

	selectFeaturesSQL = `
SELECT 
    idx,
    peak_index,
    frequency_lower,
    frequency_center,
    frequency_upper,
    bandwidth,
    peak_power,
    noise_floor,
    snr,
    channel_power,
    satellite
FROM features 
WHERE 
    run_id = ? 
ORDER BY idx`

	selectInterferenceSQL = `
SELECT 
    idx,
    kind,
    frequency_center,
    snr
FROM interference 
WHERE 
    run_id = ? 
ORDER BY idx`

	selectAttenuationSQL = `
SELECT 
    idx,
    frequency_center,
    attenuation
FROM attenuation 
WHERE 
    run_id = ? 
ORDER BY idx`
)

var (
	//go:embed schema.sql
	initSchemaSQL string

	//go:embed indexes.sql
	initIndexesSQL string
)
