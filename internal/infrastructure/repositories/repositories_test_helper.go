package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE,
		password_hash TEXT,
		first_name TEXT,
		last_name TEXT,
		phone_number TEXT,
		date_of_birth DATETIME,
		country TEXT,
		language TEXT,
		wallet_address TEXT,
		wallet_type TEXT,
		is_kyc_verified BOOLEAN,
		kyc_verified_at DATETIME,
		subscription_type TEXT,
		subscription_active BOOLEAN,
		subscription_start_date DATETIME,
		subscription_end_date DATETIME,
		role_id TEXT,
		is_active BOOLEAN,
		is_verified BOOLEAN,
		is_staff BOOLEAN,
		email_notifications BOOLEAN,
		sms_notifications BOOLEAN,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE user_profiles (
		id TEXT PRIMARY KEY,
		user_id TEXT UNIQUE NOT NULL,
		company_name TEXT,
		job_title TEXT,
		industry TEXT,
		address_line1 TEXT,
		address_line2 TEXT,
		city TEXT,
		state_province TEXT,
		postal_code TEXT,
		website TEXT,
		linkedin_profile TEXT,
		twitter_handle TEXT,
		bio TEXT,
		timezone TEXT,
		profile_public BOOLEAN,
		show_email BOOLEAN,
		show_phone BOOLEAN,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createRoleTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE roles (
		id TEXT PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		description TEXT,
		is_active BOOLEAN,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE role_permissions (
		id TEXT PRIMARY KEY,
		role_id TEXT NOT NULL,
		codename TEXT NOT NULL,
		created_at DATETIME,
		UNIQUE(role_id, codename)
	);`)
}

func createSessionTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE user_sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		session_key TEXT UNIQUE NOT NULL,
		ip_address TEXT,
		user_agent TEXT,
		is_active BOOLEAN,
		created_at DATETIME,
		last_activity DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE login_attempts (
		id TEXT PRIMARY KEY,
		email TEXT,
		ip_address TEXT,
		user_agent TEXT,
		success BOOLEAN,
		failure_reason TEXT,
		created_at DATETIME
	);`)
}

func createContractTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE contract_categories (
		id TEXT PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		description TEXT,
		icon TEXT,
		is_active BOOLEAN,
		sort_order INTEGER,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE smart_contracts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		category_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		document_name TEXT,
		document_hash TEXT,
		document_metadata TEXT,
		blockchain_network TEXT,
		contract_address TEXT,
		transaction_hash TEXT,
		block_number INTEGER,
		gas_used INTEGER,
		gas_price INTEGER,
		status TEXT,
		gas_fee_estimate TEXT,
		service_fee TEXT,
		total_cost TEXT,
		verification_status BOOLEAN,
		verification_timestamp DATETIME,
		contract_metadata TEXT,
		error_message TEXT,
		retry_count INTEGER,
		is_deleted BOOLEAN,
		deleted_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE contract_templates (
		id TEXT PRIMARY KEY,
		category_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		template_code TEXT NOT NULL,
		variables TEXT,
		is_active BOOLEAN,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE contract_deployment_logs (
		id TEXT PRIMARY KEY,
		contract_id TEXT NOT NULL,
		deployment_attempt INTEGER NOT NULL,
		status TEXT NOT NULL,
		message TEXT,
		transaction_hash TEXT,
		gas_used INTEGER,
		error_details TEXT,
		created_at DATETIME
	);`)
}

func createBillingTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE transactions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		contract_id TEXT,
		type TEXT NOT NULL,
		status TEXT,
		payment_method TEXT,
		amount TEXT NOT NULL,
		currency TEXT,
		exchange_rate TEXT,
		external_transaction_id TEXT,
		blockchain_transaction_hash TEXT,
		payment_intent_id TEXT,
		description TEXT,
		metadata TEXT,
		error_message TEXT,
		processed_at DATETIME,
		failed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE payment_methods (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		is_default BOOLEAN,
		is_active BOOLEAN,
		stripe_payment_method_id TEXT,
		card_last_four TEXT,
		card_brand TEXT,
		card_exp_month INTEGER,
		card_exp_year INTEGER,
		wallet_address TEXT,
		wallet_type TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE subscriptions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		stripe_subscription_id TEXT UNIQUE,
		status TEXT,
		price_id TEXT,
		amount TEXT NOT NULL,
		currency TEXT,
		interval TEXT,
		current_period_start DATETIME NOT NULL,
		current_period_end DATETIME NOT NULL,
		cancel_at_period_end BOOLEAN,
		cancelled_at DATETIME,
		payment_method_id TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}
