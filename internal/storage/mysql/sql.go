package mysql

// -----------------------------------------------------------------------------
// ACCOUNTS
// -----------------------------------------------------------------------------

const accountColumns = `
  id, email, password_hash, first_name, last_name, phone, google_subject,
  role, identity_type, profile_completed, is_active, created_at, last_login_at
FROM accounts`

const insertAccountSQL = `
INSERT INTO accounts
  (email, password_hash, first_name, last_name, phone, google_subject, role, identity_type, profile_completed, is_active)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getAccountByIDSQL = `SELECT` + accountColumns + `
WHERE id = ?`

const getAccountByEmailSQL = `SELECT` + accountColumns + `
WHERE email = ?`

const linkGoogleSubjectSQL = `UPDATE accounts SET google_subject = ? WHERE id = ?`

const updateRoleSQL = `UPDATE accounts SET role = ? WHERE id = ?`

const setIdentityTypeSQL = `UPDATE accounts SET identity_type = ?, profile_completed = ? WHERE id = ?`

const touchLoginSQL = `UPDATE accounts SET last_login_at = ? WHERE id = ?`

// -----------------------------------------------------------------------------
// PROFILES
// -----------------------------------------------------------------------------

// id = LAST_INSERT_ID(id) makes LastInsertId report the existing row on update.
const upsertHotelProfileSQL = `
INSERT INTO hotel_profiles
  (account_id, hotel_name, description, address, city, state, country, postal_code,
   contact_phone, contact_email, website, star_rating)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  id            = LAST_INSERT_ID(id),
  hotel_name    = VALUES(hotel_name),
  description   = VALUES(description),
  address       = VALUES(address),
  city          = VALUES(city),
  state         = VALUES(state),
  country       = VALUES(country),
  postal_code   = VALUES(postal_code),
  contact_phone = VALUES(contact_phone),
  contact_email = VALUES(contact_email),
  website       = VALUES(website),
  star_rating   = VALUES(star_rating),
  updated_at    = CURRENT_TIMESTAMP
`

const hotelProfileColumns = `
  id, account_id, hotel_name, COALESCE(description, ''), address, city, state, country,
  postal_code, contact_phone, contact_email, website, star_rating, created_at, updated_at
FROM hotel_profiles`

const getHotelProfileSQL = `SELECT` + hotelProfileColumns + `
WHERE id = ?`

const getHotelProfileByAccountSQL = `SELECT` + hotelProfileColumns + `
WHERE account_id = ?`

const upsertCorporateProfileSQL = `
INSERT INTO corporate_profiles
  (account_id, company_name, industry, company_size, address, city, country, contact_phone)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  id            = LAST_INSERT_ID(id),
  company_name  = VALUES(company_name),
  industry      = VALUES(industry),
  company_size  = VALUES(company_size),
  address       = VALUES(address),
  city          = VALUES(city),
  country       = VALUES(country),
  contact_phone = VALUES(contact_phone),
  updated_at    = CURRENT_TIMESTAMP
`

const corporateProfileColumns = `
  id, account_id, company_name, industry, company_size, address, city, country,
  contact_phone, created_at, updated_at
FROM corporate_profiles`

const getCorporateProfileSQL = `SELECT` + corporateProfileColumns + `
WHERE id = ?`

const getCorporateProfileByAccountSQL = `SELECT` + corporateProfileColumns + `
WHERE account_id = ?`

// -----------------------------------------------------------------------------
// CATALOG
// -----------------------------------------------------------------------------

const insertRoomTypeSQL = `
INSERT INTO room_types
  (hotel_id, name, description, capacity, base_price, corporate_price, amenities, is_active)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

const roomTypeColumns = `
  id, hotel_id, name, COALESCE(description, ''), capacity, base_price, corporate_price,
  amenities, is_active, created_at, updated_at
FROM room_types`

const getRoomTypeSQL = `SELECT` + roomTypeColumns + `
WHERE id = ?`

const listRoomTypesSQL = `SELECT` + roomTypeColumns + `
WHERE hotel_id = ? AND (is_active = 1 OR ? = 0)
ORDER BY base_price ASC, id ASC`

const updateRoomTypeSQL = `
UPDATE room_types SET
  name = ?, description = ?, capacity = ?, base_price = ?, corporate_price = ?,
  amenities = ?, is_active = ?
WHERE id = ? AND hotel_id = ?
`

const deleteRoomTypeSQL = `DELETE FROM room_types WHERE id = ? AND hotel_id = ?`

const insertPostSQL = `
INSERT INTO marketing_posts
  (hotel_id, title, description, price_from, price_to, valid_from, valid_to, is_active)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
`

const postFrom = `
FROM marketing_posts p
JOIN hotel_profiles h ON h.id = p.hotel_id`

const postColumns = `
  p.id, p.hotel_id, h.hotel_name, p.title, COALESCE(p.description, ''), p.price_from, p.price_to,
  p.valid_from, p.valid_to, p.is_active, p.created_at, p.updated_at` + postFrom

const getPostSQL = `SELECT` + postColumns + `
WHERE p.id = ?`

const updatePostSQL = `
UPDATE marketing_posts SET
  title = ?, description = ?, price_from = ?, price_to = ?, valid_from = ?, valid_to = ?, is_active = ?
WHERE id = ? AND hotel_id = ?
`

const deletePostSQL = `DELETE FROM marketing_posts WHERE id = ? AND hotel_id = ?`

// -----------------------------------------------------------------------------
// SEARCH
// -----------------------------------------------------------------------------

// Hotels without an active room type drop out through the inner join.
const searchHotelsSelect = `
SELECT
  h.id, h.hotel_name, COALESCE(h.description, ''), h.city, h.state, h.country, h.postal_code,
  h.star_rating, MIN(rt.base_price) AS min_price, MAX(rt.capacity) AS max_capacity,
  COUNT(rt.id) AS room_type_count
FROM hotel_profiles h
JOIN room_types rt ON rt.hotel_id = h.id AND rt.is_active = 1`

const listCitiesSQL = `
SELECT DISTINCT h.city
FROM hotel_profiles h
JOIN room_types rt ON rt.hotel_id = h.id AND rt.is_active = 1
WHERE h.city <> ''
ORDER BY h.city`

// -----------------------------------------------------------------------------
// BOOKINGS
// -----------------------------------------------------------------------------

const insertBookingSQL = `
INSERT INTO bookings
  (booking_number, account_id, corporate_profile_id, hotel_id, room_type_id,
   check_in_date, check_out_date, nights, number_of_guests, room_quantity,
   guest_name, guest_email, guest_phone, special_requests,
   unit_price, total_price, discount_amount, final_price, payment_status, booking_status)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const bookingFrom = `
FROM bookings b
JOIN hotel_profiles h ON h.id = b.hotel_id
JOIN room_types rt ON rt.id = b.room_type_id`

const bookingColumns = `
  b.id, b.booking_number, b.account_id, b.corporate_profile_id, b.hotel_id, h.hotel_name,
  b.room_type_id, rt.name, b.check_in_date, b.check_out_date, b.nights, b.number_of_guests,
  b.room_quantity, b.guest_name, b.guest_email, b.guest_phone, COALESCE(b.special_requests, ''),
  b.unit_price, b.total_price, b.discount_amount, b.final_price, b.payment_status, b.booking_status,
  b.approved_at, b.rejection_reason, b.cancelled_at, b.created_at, b.updated_at` + bookingFrom

const getBookingSQL = `SELECT` + bookingColumns + `
WHERE b.id = ?`

// -----------------------------------------------------------------------------
// CHAT
// -----------------------------------------------------------------------------

const insertMessageSQL = `
INSERT INTO chat_messages
  (corporate_id, hotel_id, post_id, sender_type, sender_id, message)
VALUES
  (?, ?, ?, ?, ?, ?)
`

const messageColumns = `
  id, corporate_id, hotel_id, post_id, sender_type, sender_id, message, is_read, created_at
FROM chat_messages`

// The latest message of a pair is the one with the highest id.
const corporateInboxSQL = `
SELECT
  m.hotel_id, h.hotel_name, m.message, m.created_at,
  (SELECT COUNT(*) FROM chat_messages u
    WHERE u.corporate_id = m.corporate_id AND u.hotel_id = m.hotel_id
      AND u.sender_type = 'Hotel' AND u.is_read = 0) AS unread
FROM chat_messages m
JOIN hotel_profiles h ON h.id = m.hotel_id
WHERE m.corporate_id = ?
  AND m.id = (SELECT MAX(l.id) FROM chat_messages l
               WHERE l.corporate_id = m.corporate_id AND l.hotel_id = m.hotel_id)
ORDER BY m.created_at DESC, m.id DESC`

const hotelInboxSQL = `
SELECT
  m.corporate_id, c.company_name, m.message, m.created_at,
  (SELECT COUNT(*) FROM chat_messages u
    WHERE u.corporate_id = m.corporate_id AND u.hotel_id = m.hotel_id
      AND u.sender_type = 'Corporate' AND u.is_read = 0) AS unread
FROM chat_messages m
JOIN corporate_profiles c ON c.id = m.corporate_id
WHERE m.hotel_id = ?
  AND m.id = (SELECT MAX(l.id) FROM chat_messages l
               WHERE l.corporate_id = m.corporate_id AND l.hotel_id = m.hotel_id)
ORDER BY m.created_at DESC, m.id DESC`

// -----------------------------------------------------------------------------
// STATS
// -----------------------------------------------------------------------------

const statsTotalsSQL = `
SELECT
  (SELECT COUNT(*) FROM accounts),
  (SELECT COUNT(*) FROM hotel_profiles),
  (SELECT COUNT(*) FROM corporate_profiles),
  (SELECT COUNT(*) FROM room_types WHERE is_active = 1),
  (SELECT COUNT(*) FROM marketing_posts WHERE is_active = 1),
  (SELECT COALESCE(SUM(final_price), 0) FROM bookings WHERE booking_status IN ('confirmed', 'completed'))`

const statsBookingsByStatusSQL = `
SELECT booking_status, COUNT(*) FROM bookings GROUP BY booking_status`
